package command

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/app"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the tag indexes of searchable collections and exit",
	Long: `Create the tag indexes used by places, blogs and prompt history.
The server does this on start; the command is meant for deploy pipelines
that prepare the store before rolling out new instances.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, _, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		backend, err := app.OpenBackend(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer backend.Close()

		if err := app.NewServices(backend.Repo).EnsureIndexes(cmd.Context()); err != nil {
			return err
		}
		logger.Info("Indexes ready", zap.String("db_driver", cfg.Database.Driver))
		return nil
	},
}
