package services

import (
	"context"
	"fmt"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

type GoalService struct {
	storage *storage.Repository
	cache   *cache.Cache[[]core.Goal]
}

func NewGoalService(storage *storage.Repository, cacheSize int, cacheTTL time.Duration) *GoalService {
	return &GoalService{
		storage: storage,
		cache:   cache.New[[]core.Goal](cacheSize, cacheTTL),
	}
}

type AddGoalParams struct {
	Name     string
	Target   core.Money
	Current  core.Money
	Icon     string
	Deadline *core.Date
}

func (s *GoalService) Add(ctx context.Context, userID string, p AddGoalParams) (core.Goal, error) {
	g := core.Goal{
		UserID:   userID,
		Name:     p.Name,
		Target:   p.Target,
		Current:  p.Current,
		Icon:     p.Icon,
		Deadline: p.Deadline,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}

	inserted, err := s.storage.InsertGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("add goal: %w", err)
	}
	s.cache.Invalidate(userID)
	return inserted, nil
}

// Update applies a partial field set and returns the updated goal. Progress
// is whatever the caller says it is; goals are never reconciled against
// transactions.
func (s *GoalService) Update(ctx context.Context, userID, id string, upd storage.GoalUpdate) (core.Goal, error) {
	if upd.Target != nil && upd.Target.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	if upd.Current != nil && upd.Current.Cents < 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}

	g, err := s.storage.UpdateGoal(ctx, userID, id, upd)
	if err != nil {
		return core.Goal{}, err
	}
	s.cache.Invalidate(userID)
	return g, nil
}

func (s *GoalService) Delete(ctx context.Context, userID, id string) error {
	if err := s.storage.DeleteGoal(ctx, userID, id); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]core.Goal, error) {
	if goals, ok := s.cache.Get(userID); ok {
		return goals, nil
	}
	goals, err := s.storage.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	s.cache.Set(userID, goals)
	return goals, nil
}
