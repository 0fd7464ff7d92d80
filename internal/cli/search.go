package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/search"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <screen> [query]",
		Short: "Preview which seed records a search query shows",
		Long: fmt.Sprintf(`Filter the seed records of a screen the way the portal's search box does.
Screens: %s, %s, %s.`, service.ScreenNGOs, service.ScreenAdminProjects, service.ScreenNGOProjects),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := opts.seed()
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 2 {
				query = args[1]
			}

			out := cmd.OutOrStdout()
			switch args[0] {
			case service.ScreenNGOs:
				printMatches(out, search.Filter(data.NGOs, query))
			case service.ScreenAdminProjects:
				printMatches(out, search.Filter(data.AdminProjects, query))
			case service.ScreenNGOProjects:
				printMatches(out, search.Filter(data.NGOProjects, query))
			default:
				return fmt.Errorf("unknown screen %q", args[0])
			}
			return nil
		},
	}
}

// printMatches prints one line per row: id, then the searchable fields.
func printMatches[T domain.Record](out io.Writer, rows []T) {
	if len(rows) == 0 {
		color.New(color.FgYellow).Fprintln(out, "no matches")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(out, "%-4s %s\n", r.RecordID(), strings.Join(r.SearchFields(), " | "))
	}
}
