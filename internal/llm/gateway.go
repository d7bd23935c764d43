package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Gateway is the single entry point the pipeline uses to reach the model.
// It bounds every call with a timeout and turns any failure into an empty
// result, so a failed chunk is simply skipped by the caller.
type Gateway struct {
	gen     Generator
	timeout time.Duration
	log     *slog.Logger
	Stats   *LatencyStats
}

func NewGateway(gen Generator, timeout time.Duration, log *slog.Logger) *Gateway {
	return &Gateway{
		gen:     gen,
		timeout: timeout,
		log:     log,
		Stats:   NewLatencyStats(time.Hour),
	}
}

// Generate returns the model output for prompt, or "" on any fault.
func (g *Gateway) Generate(ctx context.Context, prompt string) string {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := g.gen.Generate(ctx, prompt)
	g.Stats.Record(time.Since(start).Milliseconds(), err == nil)
	if err != nil {
		g.log.Warn("generation failed", "model", g.gen.Model(), "error", err)
		return ""
	}
	if strings.TrimSpace(out) == "" {
		g.log.Warn("generation returned no text", "model", g.gen.Model())
		return ""
	}
	return out
}

// Model returns the configured model name.
func (g *Gateway) Model() string {
	return g.gen.Model()
}
