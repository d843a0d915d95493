package listings

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Service acquires postings through a tiered fallback: the real provider
// first, synthetic generation second, the seed catalog last. A Search call
// fails only on invalid filters or a dead context; tier errors are logged
// and absorbed by the next tier.
type Service struct {
	provider *ProviderClient
	synth    *Synthesizer
	logger   *zap.Logger
}

func NewService(provider *ProviderClient, synth *Synthesizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{provider: provider, synth: synth, logger: logger}
}

// Search returns up to filters.Limit() postings, deduplicated and ordered
// newest first.
func (s *Service) Search(ctx context.Context, filters SearchFilters) ([]Posting, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	postings := s.acquire(ctx, filters)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	postings = Dedup(postings)
	SortByPostedDesc(postings)

	if limit := filters.Limit(); len(postings) > limit {
		postings = postings[:limit]
	}

	return postings, nil
}

func (s *Service) acquire(ctx context.Context, filters SearchFilters) []Posting {
	if s.provider.Configured() {
		postings, err := s.provider.Fetch(ctx, filters)
		if err == nil && len(postings) > 0 {
			s.logger.Info("acquired postings from provider", zap.Int("count", len(postings)))
			return postings
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		s.logger.Warn("provider tier failed, trying synthesis", zap.Error(err))
	}

	if s.synth != nil {
		postings, err := s.synth.Generate(ctx, filters, filters.Limit())
		if err == nil && len(postings) > 0 {
			s.logger.Info("acquired synthetic postings", zap.Int("count", len(postings)))
			return postings
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		s.logger.Warn("synthesis tier failed, serving seed catalog", zap.Error(err))
	}

	s.logger.Info("serving seed catalog")
	return SeedPostings()
}
