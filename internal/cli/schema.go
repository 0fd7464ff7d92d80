package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/schema"
)

func newSchemaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [focus-area]",
		Short: "Show the indicator fields of a focus area",
		Long: `Without an argument, list every focus area with its indicator fields.
With a focus-area token (nutrition, education, ...), list only that one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := opts.localizer()
			if err != nil {
				return err
			}

			areas := domain.FocusAreas()
			if len(args) == 1 {
				fa, err := domain.ParseFocusArea(args[0])
				if err != nil {
					return err
				}
				if !fa.Valid() {
					return fmt.Errorf("focus area is required")
				}
				areas = []domain.FocusArea{fa}
			}

			out := cmd.OutOrStdout()
			heading := color.New(color.FgCyan, color.Bold)
			for i, fa := range areas {
				if i > 0 {
					fmt.Fprintln(out)
				}
				heading.Fprintf(out, "%s (%s)\n", loc.T("focus."+fa.String()), fa)
				for _, f := range schema.ResolveLabeled(fa, loc.FieldLabel) {
					fmt.Fprintf(out, "  %-26s %-8s %s\n", f.Key, f.Type, f.Label)
				}
			}
			return nil
		},
	}
}
