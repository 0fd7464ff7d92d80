// Package cli implements portalctl, an inspector for the portal's reference
// data (focus-area schemas, seed files, search results) and for the
// notifications a running portal publishes.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/seed"
)

type options struct {
	lang     string
	seedFile string
}

// NewRootCmd builds the portalctl command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Inspect NGO portal reference data",
		Long: `portalctl prints the indicator schema of each focus area, checks seed
files and previews search results without starting the server.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.lang, "lang", "en", "display language (en, es)")
	root.PersistentFlags().StringVar(&opts.seedFile, "seed", "", "seed YAML file (default: built-in seed)")

	root.AddCommand(newSchemaCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newEventsCmd())
	return root
}

func (o *options) localizer() (locale.Localizer, error) {
	bundle, err := locale.Load("en")
	if err != nil {
		return locale.Localizer{}, err
	}
	return bundle.For(bundle.Match(o.lang)), nil
}

func (o *options) seed() (seed.Data, error) {
	return seed.Load(o.seedFile)
}
