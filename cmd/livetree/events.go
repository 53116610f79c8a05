package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func eventsCmd(opts *options) *cobra.Command {
	var passiveOnly bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print the native event table",
		Long: `Print the native event types a watched root listens for, after the
include, exclude and passive settings of the configuration are applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{
				text.FgHiCyan.Sprint("EVENT"),
				text.FgHiCyan.Sprint("PASSIVE"),
			})

			n := 0
			for _, spec := range cfg.EventTable() {
				if passiveOnly && !spec.Passive {
					continue
				}
				passive := ""
				if spec.Passive {
					passive = text.FgYellow.Sprint("yes")
				}
				t.AppendRow(table.Row{spec.Name, passive})
				n++
			}
			t.AppendFooter(table.Row{"total", n})
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&passiveOnly, "passive", false, "Only list passive events")

	return cmd
}
