package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mergington/activities/internal/database"
	"github.com/mergington/activities/internal/model"
)

// ActivityRepository is the storage surface the service needs. The
// SurrealDB repository and the in-memory registry both satisfy it.
// GetByName returns nil without error for an unknown activity.
type ActivityRepository interface {
	GetAll(ctx context.Context) (map[string]model.Activity, error)
	GetByName(ctx context.Context, name string) (*model.Activity, error)
	AddParticipant(ctx context.Context, name, email string) (*model.Activity, error)
	RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error)
}

// ActivityService enforces the roster rules over a repository.
type ActivityService struct {
	activityRepo ActivityRepository
}

// ActivityServiceConfig carries the service's dependencies.
type ActivityServiceConfig struct {
	ActivityRepo ActivityRepository
}

func NewActivityService(cfg ActivityServiceConfig) *ActivityService {
	return &ActivityService{
		activityRepo: cfg.ActivityRepo,
	}
}

// List returns the whole catalog keyed by activity name.
func (s *ActivityService) List(ctx context.Context) (map[string]model.Activity, error) {
	activities, err := s.activityRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// Get returns one activity. A blank name is rejected before storage is
// consulted.
func (s *ActivityService) Get(ctx context.Context, name string) (*model.Activity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrActivityNameRequired
	}

	activity, err := s.activityRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup adds email to the activity roster and returns the updated
// activity. The roster edit itself is atomic in the repository; the
// existence check here only distinguishes an unknown activity from a
// duplicate signup, and activities are never removed at runtime.
func (s *ActivityService) Signup(ctx context.Context, name, email string) (*model.Activity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, ErrActivityNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	activity, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity.HasParticipant(email) {
		return nil, ErrAlreadySignedUp
	}

	updated, err := s.activityRepo.AddParticipant(ctx, name, email)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicate):
			return nil, ErrAlreadySignedUp
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to add participant: %w", err)
	}

	return updated, nil
}

// Unregister removes email from the activity roster and returns the
// updated activity.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) (*model.Activity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, ErrActivityNameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	activity, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if !activity.HasParticipant(email) {
		return nil, ErrNotSignedUp
	}

	updated, err := s.activityRepo.RemoveParticipant(ctx, name, email)
	if err != nil {
		// The roster changed between the check and the edit; the only
		// record that can vanish from it is the email itself.
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotSignedUp
		}
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}

	return updated, nil
}
