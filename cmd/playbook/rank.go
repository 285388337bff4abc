package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kalens/playbook/internal/portfolio"
	"github.com/kalens/playbook/internal/workflow"
)

func (c *cli) rankCommand() *cobra.Command {
	var (
		top      int
		operator string
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print the ranked assignment queue for the snapshot",
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
			if top > 0 {
				ranked = portfolio.Top(ranked, top)
			}
			printQueue(ranked)

			stats := portfolio.Summarize(ranked)
			fmt.Printf("\n%d assignments across %d accounts (priority %.0f-%.0f)\n",
				stats.Total, stats.UniqueAccounts, stats.MinPriority, stats.MaxPriority)
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "Only print the N highest-ranked assignments.")
	cmd.Flags().StringVar(&operator, "operator", "", "Restrict the queue to one operator id.")
	return cmd
}

func printQueue(ranked []workflow.Assignment) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPRIORITY\tACCOUNT\tTYPE\tARR\tREASON")
	for i, asn := range ranked {
		fmt.Fprintf(w, "%d\t%.1f\t%s\t%s\t%.0f\t%s\n",
			i+1,
			asn.Instance.Priority,
			asn.AccountName,
			asn.Instance.Type,
			asn.ARR,
			asn.Instance.Reason,
		)
	}
	w.Flush()
}
