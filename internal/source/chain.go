package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain asks each provider in order for a sample and moves on when a
// provider reports ErrTableNotFound. Any other error stops the chain.
type Chain struct {
	providers []SampleProvider
	logger    *slog.Logger
}

func NewChain(logger *slog.Logger, providers ...SampleProvider) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{providers: providers, logger: logger}
}

func (c *Chain) Name() string {
	return "chain"
}

func (c *Chain) Sample(ctx context.Context, table TableSpec) (*Snapshot, error) {
	for _, p := range c.providers {
		snap, err := p.Sample(ctx, table)
		if errors.Is(err, ErrTableNotFound) {
			c.logger.Debug("sample provider has no data", "provider", p.Name(), "table", table.Name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s sample for %s: %w", p.Name(), table.Name, err)
		}
		c.logger.Debug("sample loaded", "provider", p.Name(), "table", table.Name, "rows", snap.RowCount())
		return snap, nil
	}
	return nil, fmt.Errorf("%s: %w", table.Name, ErrNoSamples)
}
