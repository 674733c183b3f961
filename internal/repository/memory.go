package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/mergington/activities/internal/database"
	"github.com/mergington/activities/internal/model"
)

// MemoryActivityRepository keeps the activity registry in process memory.
// It is the default backend: state starts from the seed set and is lost on
// restart. A single RWMutex guards the map, so roster edits are atomic and
// the no-duplicates invariant holds under concurrent requests.
//
// It returns the same sentinel errors as the SurrealDB-backed repository,
// so the service layer treats both backends identically.
type MemoryActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]model.Activity
}

// NewMemoryActivityRepository creates a registry pre-populated with the
// seed activity set.
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{
		activities: model.SeedActivities(),
	}
}

// GetAll returns a detached copy of every activity keyed by name. Callers
// can never mutate registry state through the returned value.
func (r *MemoryActivityRepository) GetAll(ctx context.Context) (map[string]model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.activities))
	for name, activity := range r.activities {
		out[name] = activity.Clone()
	}
	return out, nil
}

// GetByName returns a detached copy of a single activity, or nil when it
// does not exist
func (r *MemoryActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, nil
	}

	clone := activity.Clone()
	return &clone, nil
}

// AddParticipant appends email to the activity roster and returns the
// updated record. Returns database.ErrNotFound when the activity is
// missing and database.ErrDuplicate when the email is already signed up.
func (r *MemoryActivityRepository) AddParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, fmt.Errorf("%w: activity %q", database.ErrNotFound, name)
	}
	if activity.HasParticipant(email) {
		return nil, fmt.Errorf("%w: %s is already on the roster", database.ErrDuplicate, email)
	}

	activity.Participants = append(activity.Participants, email)
	r.activities[name] = activity

	clone := activity.Clone()
	return &clone, nil
}

// RemoveParticipant removes email from the activity roster and returns the
// updated record, preserving the order of the remaining participants.
// Returns database.ErrNotFound when the activity is missing or the email
// is not on the roster.
func (r *MemoryActivityRepository) RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, fmt.Errorf("%w: activity %q", database.ErrNotFound, name)
	}
	if !activity.HasParticipant(email) {
		return nil, fmt.Errorf("%w: %s is not on the roster", database.ErrNotFound, email)
	}

	remaining := make([]string, 0, len(activity.Participants)-1)
	for _, p := range activity.Participants {
		if p != email {
			remaining = append(remaining, p)
		}
	}
	activity.Participants = remaining
	r.activities[name] = activity

	clone := activity.Clone()
	return &clone, nil
}
