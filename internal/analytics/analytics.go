package analytics

import (
	"context"
	"time"

	"steward/internal/storage"
)

type Service struct {
	store *storage.Store
}

func New(store *storage.Store) *Service {
	return &Service{store: store}
}

type Report struct {
	Total    int
	ByAction map[string]int
}

// Report aggregates moderation activity since the given time.
func (s *Service) Report(ctx context.Context, since time.Time) (Report, error) {
	counts, err := s.store.CountModActions(ctx, since)
	if err != nil {
		return Report{}, err
	}

	report := Report{ByAction: counts}
	for _, count := range counts {
		report.Total += count
	}
	return report, nil
}
