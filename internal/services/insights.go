package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

// InsightService serves stored insights. Generation happens elsewhere; the
// only mutations here are the read flag and deletion.
type InsightService struct {
	storage *storage.Repository
	cache   *cache.Cache[[]core.Insight]
}

func NewInsightService(storage *storage.Repository, cacheSize int, cacheTTL time.Duration) *InsightService {
	return &InsightService{
		storage: storage,
		cache:   cache.New[[]core.Insight](cacheSize, cacheTTL),
	}
}

func (s *InsightService) List(ctx context.Context, userID string) ([]core.Insight, error) {
	if insights, ok := s.cache.Get(userID); ok {
		return insights, nil
	}
	insights, err := s.storage.ListInsights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	s.cache.Set(userID, insights)
	return insights, nil
}

func (s *InsightService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.storage.SetInsightRead(ctx, userID, id, true); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

func (s *InsightService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.DeleteInsight(ctx, userID, id); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}
