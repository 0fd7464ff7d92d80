package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Validate a seed file and summarize its records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.seed()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := opts.seedFile
			if source == "" {
				source = "built-in"
			}
			color.New(color.FgGreen).Fprintf(out, "seed ok (%s)\n", source)

			fmt.Fprintf(out, "ngos: %d\n", len(data.NGOs))
			for _, n := range data.NGOs {
				fmt.Fprintf(out, "  %-4s %s <%s>\n", n.ID, n.Name, n.Email)
			}
			fmt.Fprintf(out, "admin_projects: %d\n", len(data.AdminProjects))
			for _, p := range data.AdminProjects {
				fmt.Fprintf(out, "  %-4s %s (%s)\n", p.ID, p.Name, p.ReportingPeriod)
			}
			fmt.Fprintf(out, "ngo_projects: %d\n", len(data.NGOProjects))
			for _, p := range data.NGOProjects {
				fmt.Fprintf(out, "  %-4s %s [%s]\n", p.ID, p.Name, p.FocusArea)
			}
			return nil
		},
	}
}
