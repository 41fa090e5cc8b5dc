package commands

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pageza/ragcipe/backend/config"
	"github.com/pageza/ragcipe/backend/internal/app"
	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/service"
)

var (
	verbose bool
	noColor bool
	asJSON  bool
)

// serviceFactory builds the recommendation service and returns a cleanup func.
// Tests replace it.
var serviceFactory = func(ctx context.Context) (service.RecommendationServiceInterface, func(), error) {
	cfg, stores, err := connect()
	if err != nil {
		return nil, nil, err
	}
	svc, err := app.NewRecommendationService(cfg, stores)
	if err != nil {
		stores.Close()
		return nil, nil, err
	}
	return svc, stores.Close, nil
}

func connect() (*config.Config, *app.Stores, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	} else if level == "info" {
		// keep stdout readable, pipeline progress is logged at info
		level = "warn"
	}
	logging.Init(logging.Config{Level: level, Format: "console"})

	stores, err := app.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, stores, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ragcipe",
		Short: "Recipe recommendations from a natural language query",
		Long: `ragcipe retrieves recipes that match a culinary query, applies ingredient and
nutrition constraints found in the query, reranks the survivors and answers with
the best recipe and store products for its ingredients.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON instead of formatted output")

	root.AddCommand(newQueryCmd(), newChoicesCmd(), newSelectCmd(), newIndexCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
