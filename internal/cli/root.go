// Package cli provides the simrec-cli command tree for offline lookups
// against the same corpus and matrix the server loads.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simrec/internal/app"
	"github.com/kailas-cloud/simrec/internal/config"
	"github.com/kailas-cloud/simrec/internal/domain/dataset"
	"github.com/kailas-cloud/simrec/internal/logger"
	"github.com/kailas-cloud/simrec/internal/version"
)

// globals holds persistent flags and state shared by subcommands.
type globals struct {
	env        string
	corpusPath string
	matrixPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCommand builds the simrec-cli command tree.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "simrec-cli",
		Short: "Offline similarity lookups over a precomputed corpus",
		Long: `simrec-cli answers "what is similar to this reference?" directly from
the corpus and similarity matrix, without starting the HTTP server.

Configuration is read from config/<env>.yaml when present; --corpus and
--matrix override the data paths.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return g.setup()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if g.logger != nil {
				_ = g.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&g.env, "env", config.GetEnv(), "config environment (config/<env>.yaml)")
	root.PersistentFlags().StringVar(&g.corpusPath, "corpus", "", "corpus file (.csv or .parquet), overrides config")
	root.PersistentFlags().StringVar(&g.matrixPath, "matrix", "", "similarity matrix (.npy), overrides config")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newRecommendCommand(g))
	root.AddCommand(newInspectCommand(g))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// setup loads config (falling back to defaults when the file is missing),
// applies flag overrides and builds the logger.
func (g *globals) setup() error {
	cfg, err := config.Read(g.env)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Defaults(), nil
	}
	if err != nil {
		return err
	}

	if g.corpusPath != "" {
		cfg.Data.CorpusPath = g.corpusPath
	}
	if g.matrixPath != "" {
		cfg.Data.MatrixPath = g.matrixPath
	}
	// No result cache for one-shot lookups.
	cfg.Cache.Driver = config.CacheNone
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	g.cfg = cfg

	level := "warn"
	if g.verbose {
		level = "debug"
	}
	g.logger, err = logger.NewLogger("cli", level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func (g *globals) loadDataset() (*dataset.Dataset, error) {
	return app.LoadDataset(&g.cfg, g.logger)
}
