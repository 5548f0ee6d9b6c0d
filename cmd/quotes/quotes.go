// Package quotescmder
package quotescmder

import (
	"github.com/spf13/cobra"

	seedcmder "github.com/UladRH/quotes-assignment-task/cmd/quotes/seed"
	servecmder "github.com/UladRH/quotes-assignment-task/cmd/quotes/serve"
	versioncmder "github.com/UladRH/quotes-assignment-task/cmd/version"
)

const quotesLongDesc string = `Quotes serves random, high-rated, and similar quotes with per-session
engagement tracking.

Run services using:
  quotes serve         Run the API server
  quotes seed          Load quote embeddings into the vector store`

const quotesShortDesc string = "Quotes - recommendation and engagement engine"

func NewQuotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: quotesShortDesc,
		Long:  quotesLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default: quotes.yaml in the working directory)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(seedcmder.NewSeedCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
