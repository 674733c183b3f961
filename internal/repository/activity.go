package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mergington/activities/internal/database"
	"github.com/mergington/activities/internal/model"
)

// ActivityRepository handles activity registry data access on SurrealDB.
// Activities are stored one record per activity with the name as a unique
// field; roster edits are single conditional UPDATE statements, so the
// no-duplicates invariant holds without application-side locking.
type ActivityRepository struct {
	db database.Database
}

func NewActivityRepository(db database.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// GetAll retrieves every activity keyed by name
func (r *ActivityRepository) GetAll(ctx context.Context) (map[string]model.Activity, error) {
	query := `SELECT * FROM activity ORDER BY name`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	return parseActivityMap(results)
}

// GetByName retrieves a single activity, or nil when it does not exist
func (r *ActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	query := `SELECT * FROM activity WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	_, activity, err := parseActivityRecord(result)
	return activity, err
}

// AddParticipant appends email to the activity roster and returns the
// updated record. The duplicate check runs inside the UPDATE itself, so
// concurrent signups for the same email cannot both succeed.
// Returns database.ErrNotFound when the activity is missing and
// database.ErrDuplicate when the email is already on the roster.
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	query := `
		UPDATE activity SET
			participants += $email,
			updated_on = time::now()
		WHERE name = $name AND $email NOT INSIDE participants
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"name":  name,
		"email": email,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, r.classifyAddMiss(ctx, name, email)
		}
		return nil, err
	}

	_, activity, err := parseActivityRecord(result)
	return activity, err
}

// classifyAddMiss distinguishes the two reasons a conditional signup
// update can match nothing: missing activity or duplicate email.
func (r *ActivityRepository) classifyAddMiss(ctx context.Context, name, email string) error {
	existing, err := r.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: activity %q", database.ErrNotFound, name)
	}
	return fmt.Errorf("%w: %s is already on the roster", database.ErrDuplicate, email)
}

// RemoveParticipant removes email from the activity roster and returns the
// updated record, preserving the order of the remaining participants.
// Returns database.ErrNotFound when the activity is missing or the email
// is not on the roster.
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	query := `
		UPDATE activity SET
			participants -= $email,
			updated_on = time::now()
		WHERE name = $name AND $email INSIDE participants
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"name":  name,
		"email": email,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			existing, lookErr := r.GetByName(ctx, name)
			if lookErr != nil {
				return nil, lookErr
			}
			if existing == nil {
				return nil, fmt.Errorf("%w: activity %q", database.ErrNotFound, name)
			}
			return nil, fmt.Errorf("%w: %s is not on the roster", database.ErrNotFound, email)
		}
		return nil, err
	}

	_, activity, err := parseActivityRecord(result)
	return activity, err
}

// SeedDefaults creates any of the given activities that do not exist yet.
// Existing rosters are never touched, so restarting the server against a
// populated database keeps prior signups. Returns the number of activities
// created.
func (r *ActivityRepository) SeedDefaults(ctx context.Context, defaults map[string]model.Activity) (int, error) {
	existingQuery := `SELECT name FROM activity`
	results, err := r.db.Query(ctx, existingQuery, nil)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]bool)
	for _, row := range rowsOf(results) {
		if data, ok := row.(map[string]interface{}); ok {
			existing[stringField(data, "name")] = true
		}
	}

	createQuery := `
		CREATE activity SET
			name = $name,
			description = $description,
			schedule = $schedule,
			max_participants = $max_participants,
			participants = $participants,
			created_on = time::now(),
			updated_on = time::now()
	`

	batch := database.NewAtomicBatch()
	for name, activity := range defaults {
		if existing[name] {
			continue
		}
		batch.Add(createQuery, map[string]interface{}{
			"name":             name,
			"description":      activity.Description,
			"schedule":         activity.Schedule,
			"max_participants": activity.MaxParticipants,
			"participants":     activity.Participants,
		})
	}

	if batch.Len() == 0 {
		return 0, nil
	}

	if err := batch.Execute(ctx, r.db); err != nil {
		// Another instance seeded concurrently; the unique name index
		// rejected the whole batch and its records are already in place.
		if isUniqueIndexError(err) {
			return 0, nil
		}
		return 0, err
	}

	return batch.Len(), nil
}

// parseActivityRecord decodes a single activity row into its name and
// model. The name lives on the stored record but not on the model, where
// it is the registry key.
func parseActivityRecord(row interface{}) (string, *model.Activity, error) {
	if row == nil {
		return "", nil, database.ErrNotFound
	}

	data, ok := row.(map[string]interface{})
	if !ok {
		return "", nil, fmt.Errorf("unexpected row shape %T", row)
	}

	// Record ids stay internal. Activities are addressed by name, and the
	// driver's RecordID value would not survive the JSON round trip.
	delete(data, "id")

	name := stringField(data, "name")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", nil, err
	}

	var activity model.Activity
	if err := json.Unmarshal(jsonBytes, &activity); err != nil {
		return "", nil, err
	}

	if activity.Participants == nil {
		activity.Participants = []string{}
	}

	return name, &activity, nil
}

// parseActivityMap decodes query results into the name-keyed map the
// listing endpoint serves. Rows that fail to decode are skipped rather
// than failing the whole listing.
func parseActivityMap(results []interface{}) (map[string]model.Activity, error) {
	activities := make(map[string]model.Activity)

	for _, row := range rowsOf(results) {
		name, activity, err := parseActivityRecord(row)
		if err != nil || name == "" {
			continue
		}
		activities[name] = *activity
	}

	return activities, nil
}
