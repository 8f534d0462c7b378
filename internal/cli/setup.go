package cli

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/llm"
	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/pipeline"
	"github.com/ppiankov/truthlens/internal/store"
	"github.com/ppiankov/truthlens/internal/validate"
)

// llmFlags are shared by every command that can attach a narrative
type llmFlags struct {
	enabled  bool
	provider string
	model    string
}

func (f *llmFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.enabled, "llm", false, "attach an LLM summary (never changes the score)")
	cmd.Flags().StringVar(&f.provider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	cmd.Flags().StringVar(&f.model, "llm-model", "", "LLM model name (default from config)")
}

// apply enables the provider on c when --llm is set
func (f *llmFlags) apply(c *model.Config) error {
	if !f.enabled {
		return nil
	}
	c.LLM.Provider = f.provider
	if f.model != "" {
		c.LLM.Model = f.model
	}
	c.LLM.StrictEvidence = true

	if f.provider == "openai" && c.LLM.APIKey == "" {
		return eris.New("OPENAI_API_KEY environment variable not set")
	}
	if f.provider == "ollama" {
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" {
			c.LLM.BaseURL = base
		}
	}
	return nil
}

// env holds the components a command needs; Close releases them
type env struct {
	Pipeline *pipeline.Pipeline
	Store    store.Store
}

func (e *env) Close() {
	if e.Store != nil {
		if err := e.Store.Close(); err != nil {
			zap.L().Warn("closing store", zap.Error(err))
		}
	}
}

// buildEnv wires the pipeline from c. The store is opened only when
// withStore is set and a path is configured.
func buildEnv(ctx context.Context, c *model.Config, withStore bool) (*env, error) {
	logger := zap.L()

	engine, err := pipeline.NewEngine(c, logger)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithFetcher(pipeline.NewFetcherFromConfig(c, logger)),
		pipeline.WithRenderer(pipeline.NewRenderer(c.Output.IncludeFooter)),
	}

	if c.HTTP.CheckLinks {
		opts = append(opts, pipeline.WithLinkChecker(validate.NewLinkChecker(c.HTTP, c.Concurrency.Workers, logger)))
	}

	if c.LLM.Provider != "" {
		summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(c.LLM), logger)
		if err != nil {
			return nil, eris.Wrap(err, "llm provider")
		}
		opts = append(opts, pipeline.WithSummarizer(summarizer))
	}

	e := &env{}
	if withStore && c.Store.Path != "" {
		st, err := store.Open(ctx, c.Store.Path)
		if err != nil {
			return nil, eris.Wrap(err, "open store")
		}
		e.Store = st
		opts = append(opts, pipeline.WithStore(st))
	}

	e.Pipeline = pipeline.New(engine, opts...)
	return e, nil
}

// openStore opens the configured store for read-only commands
func openStore(ctx context.Context, c *model.Config) (store.Store, error) {
	if c.Store.Path == "" {
		return nil, eris.New("store.path is not configured")
	}
	st, err := store.Open(ctx, c.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}
