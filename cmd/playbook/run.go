package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kalens/playbook/internal/tui"
	"github.com/kalens/playbook/internal/workflow"
)

func (c *cli) runCommand() *cobra.Command {
	var operator string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the operator console over the ranked queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.loadSnapshot()
			if err != nil {
				return err
			}
			generator, err := c.generator(snap)
			if err != nil {
				return err
			}
			var ranked []workflow.Assignment
			if operator != "" {
				ranked = generator.QueueForOperator(snap.Accounts, operator)
			} else {
				ranked = generator.GenerateAll(snap.Accounts)
			}
			if len(ranked) == 0 {
				return fmt.Errorf("no assignments in the queue")
			}

			composer, compositions, err := c.buildComposer()
			if err != nil {
				return err
			}
			app, err := tui.NewApp(ranked, composer, compositions, tui.WithLogger(c.log))
			if err != nil {
				return err
			}
			program := tea.NewProgram(app, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "Open only this operator's queue.")
	return cmd
}
