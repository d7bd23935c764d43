package commands

import (
	"context"
	"path/filepath"

	"github.com/dgallion1/chat2md/internal/console"
	"github.com/dgallion1/chat2md/internal/pipeline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newRunCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process every transcript not yet in the progress ledger",
		Long: `Run makes one pass over the input directory. Files already recorded in the
progress ledger are skipped; a file that fails is logged and retried on the
next run. The command exits 0 once every pending file has been attempted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg)

			gateway, closeGateway, err := newGateway(cfg, log)
			if err != nil {
				return err
			}
			defer closeGateway()

			orch, err := pipeline.NewOrchestrator(cfg, gateway, afero.NewOsFs(), log)
			if err != nil {
				return err
			}
			report, err := orch.Run(context.Background())
			if err != nil {
				return err
			}

			console.FormatSummary(cmd.OutOrStdout(), report, filepath.Join(cfg.OutputDir, cfg.TOCFile))
			return nil
		},
	}
}
