package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/brochurer/internal/config"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	cfgFile string
	verbose bool
	config  *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "brochurer",
		Short: "Property brochure page assembly tool",
		Long: `Brochurer turns uploaded property photographs and a property/agent form
into a paginated brochure: a cover page, interior photo pages, an optional
floor plan page and a contact page.

Run the web interface with "serve" or build a brochure from files with "generate".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.cfgFile)
			if err != nil {
				return err
			}
			if opts.verbose {
				cfg.LogLevel = "debug"
			}
			opts.config = cfg

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			slog.SetDefault(logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "Config file (default: ./brochurer.yaml or $HOME/.brochurer/brochurer.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newGenerateCmd(opts))

	return cmd
}
