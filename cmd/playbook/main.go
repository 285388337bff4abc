// cmd/playbook/main.go
//
// Entry point for the playbook CLI. Subcommands:
//
//	rank      print the ranked assignment queue for a snapshot
//	serve     expose the assignments API over HTTP
//	run       open the operator console for a queue
//	validate  check authored compositions against the slide library
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kalens/playbook/internal/compose"
	"github.com/kalens/playbook/internal/config"
	"github.com/kalens/playbook/internal/logging"
	"github.com/kalens/playbook/internal/portfolio"
	"github.com/kalens/playbook/internal/registry"
	"github.com/kalens/playbook/internal/signal"
	"github.com/kalens/playbook/internal/slide"
	"github.com/kalens/playbook/internal/slide/catalog"
)

type cli struct {
	cfg config.Config
	log *zap.Logger
}

func setupFlags(cmd *cobra.Command) error {
	cmd.PersistentFlags().String("config-file", "", "Path to config file.")
	cmd.PersistentFlags().String("snapshot", "", "Path to the account signal snapshot.")
	cmd.PersistentFlags().String("compositions", "", "Directory of authored composition files.")
	cmd.PersistentFlags().String("http-addr", "", "Listen address for the assignments API.")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
	return viper.BindPFlags(cmd.PersistentFlags())
}

// setupConfig layers flags over the config file over the defaults.
func (c *cli) setupConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetString("config-file"))
	if err != nil {
		return err
	}
	if addr := viper.GetString("http-addr"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if dir := viper.GetString("compositions"); dir != "" {
		cfg.CompositionsDir = dir
	}
	if path := viper.GetString("snapshot"); path != "" {
		cfg.SnapshotPath = path
	}
	if viper.GetBool("debug") {
		cfg.Debug = true
	}
	c.cfg = cfg
	c.log, err = logging.New(cfg.Debug)
	return err
}

func (c *cli) loadSnapshot() (signal.Snapshot, error) {
	return signal.LoadSnapshotFile(c.cfg.SnapshotPath, time.Now())
}

func (c *cli) generator(snap signal.Snapshot) (*portfolio.Generator, error) {
	return portfolio.New(c.cfg.Params(), portfolio.WithOperators(snap.Operators))
}

// buildComposer wires the built-in catalog plus the authored compositions.
func (c *cli) buildComposer() (*compose.Composer, map[string]compose.Composition, error) {
	lib := slide.NewLibrary()
	catalog.Register(lib)
	templates := registry.NewTemplates()
	catalog.RegisterTemplates(templates)
	components := registry.NewComponents()
	catalog.RegisterComponents(components)

	composer, err := compose.New(lib, templates, components)
	if err != nil {
		return nil, nil, err
	}
	compositions, err := compose.LoadDir(c.cfg.CompositionsDir)
	if err != nil {
		return nil, nil, err
	}
	return composer, compositions, nil
}

func main() {
	c := &cli{}
	root := &cobra.Command{
		Use:               "playbook",
		Short:             "Account workflow determination, prioritization, and guided execution",
		PersistentPreRunE: c.setupConfig,
		SilenceUsage:      true,
	}
	if err := setupFlags(root); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	root.AddCommand(c.rankCommand(), c.serveCommand(), c.runCommand(), c.validateCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
