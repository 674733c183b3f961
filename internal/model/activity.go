package model

// Activity represents an extracurricular offering with a human-readable
// schedule, a participant capacity, and an ordered roster of student emails.
// The activity name is not part of the record; it is the registry key.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// HasParticipant reports whether email is already on the roster.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// IsFull reports whether the roster has reached or exceeded capacity.
// Capacity is advisory: signups are not rejected when an activity is full,
// but full rosters are reported by the capacity watcher.
func (a *Activity) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the number of open spots, never below zero.
func (a *Activity) SpotsLeft() int {
	left := a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// Clone returns a deep copy whose roster does not alias the original.
func (a *Activity) Clone() Activity {
	clone := *a
	clone.Participants = append([]string(nil), a.Participants...)
	return clone
}

// MessageResponse is the body returned by successful signup and
// unregister requests.
type MessageResponse struct {
	Message string `json:"message"`
}

// SeedActivities returns the fixed set of activities the registry is
// populated with at startup. Each call builds fresh records, so callers
// may mutate the result freely.
func SeedActivities() map[string]Activity {
	return map[string]Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Competitive basketball team for intramural and regional tournaments",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"alex@mergington.edu"},
		},
		"Tennis Club": {
			Description:     "Learn tennis skills and participate in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:00 PM",
			MaxParticipants: 10,
			Participants:    []string{"jessica@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Develop public speaking and argumentation skills through competitive debate",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"ryan@mergington.edu", "sarah@mergington.edu"},
		},
		"Math Olympiad": {
			Description:     "Solve challenging math problems and prepare for competitions",
			Schedule:        "Thursdays, 4:30 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"marcus@mergington.edu"},
		},
		"Art Club": {
			Description:     "Explore various art techniques including painting, drawing, and sculpture",
			Schedule:        "Mondays and Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"grace@mergington.edu", "lucas@mergington.edu"},
		},
		"Theater Production": {
			Description:     "Perform in school plays and musicals with opportunities for acting and stage design",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"natalie@mergington.edu"},
		},
	}
}
