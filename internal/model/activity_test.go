package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// ============================================================================
// Activity Helper Tests
// ============================================================================

func TestActivity_HasParticipant(t *testing.T) {
	t.Parallel()

	a := &Activity{
		Participants: []string{"michael@mergington.edu", "daniel@mergington.edu"},
	}

	if !a.HasParticipant("michael@mergington.edu") {
		t.Error("expected michael@mergington.edu to be on the roster")
	}
	if a.HasParticipant("ghost@mergington.edu") {
		t.Error("expected ghost@mergington.edu to be absent")
	}
}

func TestActivity_HasParticipant_EmptyRoster(t *testing.T) {
	t.Parallel()

	a := &Activity{}

	if a.HasParticipant("anyone@mergington.edu") {
		t.Error("empty roster should have no participants")
	}
}

func TestActivity_IsFull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		max          int
		participants []string
		want         bool
	}{
		{"under capacity", 3, []string{"a@mergington.edu"}, false},
		{"at capacity", 2, []string{"a@mergington.edu", "b@mergington.edu"}, true},
		{"over capacity", 1, []string{"a@mergington.edu", "b@mergington.edu"}, true},
		{"zero capacity never full", 0, []string{"a@mergington.edu"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := &Activity{MaxParticipants: tt.max, Participants: tt.participants}
			if got := a.IsFull(); got != tt.want {
				t.Errorf("IsFull() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivity_SpotsLeft_NeverNegative(t *testing.T) {
	t.Parallel()

	a := &Activity{
		MaxParticipants: 1,
		Participants:    []string{"a@mergington.edu", "b@mergington.edu"},
	}

	if got := a.SpotsLeft(); got != 0 {
		t.Errorf("SpotsLeft() = %d, want 0", got)
	}
}

func TestActivity_Clone_DetachesRoster(t *testing.T) {
	t.Parallel()

	orig := &Activity{
		Description:     "Learn tennis skills and participate in matches",
		Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:00 PM",
		MaxParticipants: 10,
		Participants:    []string{"jessica@mergington.edu"},
	}

	clone := orig.Clone()
	clone.Participants = append(clone.Participants, "intruder@mergington.edu")
	clone.Participants[0] = "changed@mergington.edu"

	if len(orig.Participants) != 1 {
		t.Errorf("original roster length changed: %d", len(orig.Participants))
	}
	if orig.Participants[0] != "jessica@mergington.edu" {
		t.Errorf("original roster mutated: %v", orig.Participants)
	}
}

// ============================================================================
// JSON Shape Tests
// ============================================================================

func TestActivity_JSON_FieldNames(t *testing.T) {
	t.Parallel()

	a := Activity{
		Description:     "Physical education and sports activities",
		Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		MaxParticipants: 30,
		Participants:    []string{"john@mergington.edu"},
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	for _, field := range []string{"description", "schedule", "max_participants", "participants"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected field %q in JSON output, got %s", field, data)
		}
	}
	if len(raw) != 4 {
		t.Errorf("expected exactly 4 JSON fields, got %d: %s", len(raw), data)
	}
}

// ============================================================================
// Seed Data Tests
// ============================================================================

func TestSeedActivities_HasNineActivities(t *testing.T) {
	t.Parallel()

	seed := SeedActivities()

	if len(seed) != 9 {
		t.Errorf("expected 9 seed activities, got %d", len(seed))
	}
}

func TestSeedActivities_ContainsKnownActivities(t *testing.T) {
	t.Parallel()

	seed := SeedActivities()

	names := []string{
		"Chess Club", "Programming Class", "Gym Class", "Basketball Team",
		"Tennis Club", "Debate Team", "Math Olympiad", "Art Club",
		"Theater Production",
	}
	for _, name := range names {
		if _, ok := seed[name]; !ok {
			t.Errorf("expected seed to contain %q", name)
		}
	}
}

func TestSeedActivities_ChessClubRoster(t *testing.T) {
	t.Parallel()

	chess := SeedActivities()["Chess Club"]

	if chess.Schedule != "Fridays, 3:30 PM - 5:00 PM" {
		t.Errorf("unexpected schedule: %q", chess.Schedule)
	}
	if chess.MaxParticipants != 12 {
		t.Errorf("expected max 12, got %d", chess.MaxParticipants)
	}
	want := []string{"michael@mergington.edu", "daniel@mergington.edu"}
	if len(chess.Participants) != len(want) {
		t.Fatalf("expected %d participants, got %d", len(want), len(chess.Participants))
	}
	for i, email := range want {
		if chess.Participants[i] != email {
			t.Errorf("participant %d: expected %q, got %q", i, email, chess.Participants[i])
		}
	}
}

func TestSeedActivities_AllEmailsAreSchoolDomain(t *testing.T) {
	t.Parallel()

	for name, activity := range SeedActivities() {
		for _, email := range activity.Participants {
			if !strings.HasSuffix(email, "@mergington.edu") {
				t.Errorf("%s: participant %q is not a school address", name, email)
			}
		}
	}
}

func TestSeedActivities_ReturnsFreshCopies(t *testing.T) {
	t.Parallel()

	first := SeedActivities()
	chess := first["Chess Club"]
	chess.Participants[0] = "mutated@mergington.edu"

	second := SeedActivities()
	if second["Chess Club"].Participants[0] != "michael@mergington.edu" {
		t.Error("mutating one seed copy leaked into a later copy")
	}
}

func TestSeedActivities_NoDuplicateParticipants(t *testing.T) {
	t.Parallel()

	for name, activity := range SeedActivities() {
		seen := make(map[string]bool)
		for _, email := range activity.Participants {
			if seen[email] {
				t.Errorf("%s: duplicate participant %q", name, email)
			}
			seen[email] = true
		}
	}
}
