package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/chat2md/internal/config"
	"github.com/dgallion1/chat2md/internal/llm"
	"github.com/dgallion1/chat2md/internal/logging"
	"github.com/dgallion1/chat2md/internal/version"
	"github.com/spf13/cobra"
)

// overrides holds flag values that take precedence over the environment.
type overrides struct {
	input    string
	output   string
	pattern  string
	workers  int
	model    string
	provider string
	tocScope string
}

// NewRootCmd builds the chat2md command tree.
func NewRootCmd() *cobra.Command {
	var o overrides

	root := &cobra.Command{
		Use:   "chat2md",
		Short: "Turn exported chat transcripts into a markdown reference library",
		Long: `chat2md splits exported chat transcripts into model-sized chunks, asks a local
model to restructure each chunk into titled sections, and writes every section
worth keeping as its own markdown note with a front matter header. Short
unformatted sections are folded into one miscellaneous note per transcript.

Settings come from CHAT2MD_* environment variables (a .env file is honoured);
flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("chat2md %s\n", version.String()))

	pf := root.PersistentFlags()
	pf.StringVarP(&o.input, "input", "i", "", "Directory containing exported transcripts")
	pf.StringVarP(&o.output, "output", "o", "", "Directory receiving notes, TOC and ledger")
	pf.StringVar(&o.pattern, "pattern", "", "Glob selecting transcripts relative to the input directory")
	pf.IntVarP(&o.workers, "workers", "w", 0, "Files processed in parallel")
	pf.StringVar(&o.model, "model", "", "Model name sent to the generation endpoint")
	pf.StringVar(&o.provider, "provider", "", "Model provider (ollama, openai)")
	pf.StringVar(&o.tocScope, "toc-scope", "", "Entries listed in the TOC (all, run)")

	root.AddCommand(
		newRunCmd(&o),
		newServeCmd(&o),
		newStatusCmd(&o),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies changed flags and validates.
func loadConfig(cmd *cobra.Command, o *overrides) (config.Config, error) {
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputDir = o.input
	}
	if flags.Changed("output") {
		cfg.OutputDir = o.output
	}
	if flags.Changed("pattern") {
		cfg.Pattern = o.pattern
	}
	if flags.Changed("workers") {
		cfg.WorkerCount = o.workers
	}
	if flags.Changed("model") {
		cfg.LLMModel = o.model
	}
	if flags.Changed("provider") {
		cfg.LLMProvider = o.provider
		cfg.LLMURL = os.Getenv("CHAT2MD_LLM_URL")
	}
	if flags.Changed("toc-scope") {
		cfg.TOCScope = o.tocScope
	}
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	return logging.New(w, cfg.LogLevel, cfg.LogJSON)
}

// newGateway builds the model gateway and a func releasing its connections.
func newGateway(cfg config.Config, log *slog.Logger) (*llm.Gateway, func(), error) {
	gen, err := llm.New(llm.Config{
		Provider:     cfg.LLMProvider,
		URL:          cfg.LLMURL,
		APIKey:       cfg.LLMAPIKey,
		Model:        cfg.LLMModel,
		SystemPrompt: cfg.SystemPrompt(llm.DefaultSystemPrompt),
		Timeout:      cfg.LLMTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if c, ok := gen.(interface{ Close() }); ok {
		closeFn = c.Close
	}
	return llm.NewGateway(gen, cfg.LLMTimeout, log), closeFn, nil
}
