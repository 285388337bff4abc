package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kalens/playbook/internal/compose"
	"github.com/kalens/playbook/internal/slide"
	"github.com/kalens/playbook/internal/slide/catalog"
)

func (c *cli) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every authored composition against the slide library",
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := slide.NewLibrary()
			catalog.Register(lib)
			compositions, err := compose.LoadDir(c.cfg.CompositionsDir)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(compositions))
			for id := range compositions {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			problems := 0
			for _, id := range ids {
				errs := compose.Validate(compositions[id], lib)
				if len(errs) == 0 {
					fmt.Printf("ok    %s\n", id)
					continue
				}
				problems += len(errs)
				for _, verr := range errs {
					fmt.Printf("error %s\n", verr.Error())
				}
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) across %d composition(s)", problems, len(ids))
			}
			fmt.Printf("%d composition(s) valid\n", len(ids))
			return nil
		},
	}
}
