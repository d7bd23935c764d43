package commands

import (
	"fmt"

	"github.com/dgallion1/chat2md/internal/pipeline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newStatusCmd(o *overrides) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger size and pending transcripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			log := newLogger(cmd.ErrOrStderr(), cfg)

			// Listing never reaches the model.
			orch, err := pipeline.NewOrchestrator(cfg, nil, afero.NewOsFs(), log)
			if err != nil {
				return err
			}
			pending, processed, err := orch.Pending()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ledger:    %s (%d records)\n", orch.Ledger().Path(), len(orch.Ledger().Load()))
			fmt.Fprintf(out, "Processed: %d\n", processed)
			fmt.Fprintf(out, "Pending:   %d\n", len(pending))
			for _, src := range pending {
				fmt.Fprintf(out, "  %s\n", src.Name)
			}
			return nil
		},
	}
}
