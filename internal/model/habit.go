package model

import "time"

// Category is the habit's enumerated grouping.
type Category string

const (
	CategoryHealth   Category = "Health"
	CategoryStudy    Category = "Study"
	CategoryPersonal Category = "Personal"
	CategoryWork     Category = "Work"
	CategoryFitness  Category = "Fitness"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryStudy,
	CategoryPersonal,
	CategoryWork,
	CategoryFitness,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Mode classifies a habit by its check-in gates. It is derived from the
// optional Duration/CheckInQuestion fields so precondition logic can switch
// over it exhaustively instead of re-testing field presence.
type Mode int

const (
	// ModePlain has no gates; check-in is immediately available.
	ModePlain Mode = iota
	// ModeTimed requires a completed session timer before check-in.
	ModeTimed
	// ModeQuestioned requires a non-empty answer with the check-in.
	ModeQuestioned
	// ModeTimedQuestioned requires both the timer and an answer.
	ModeTimedQuestioned
)

func (m Mode) String() string {
	switch m {
	case ModePlain:
		return "plain"
	case ModeTimed:
		return "timed"
	case ModeQuestioned:
		return "questioned"
	case ModeTimedQuestioned:
		return "timed+questioned"
	}
	return "unknown"
}

// Habit is a tracked habit owned by exactly one user.
//
// Streak state is the pair (StreakCount, LastCompletedDate). Invariants:
// StreakCount >= 0, and StreakCount > 0 implies LastCompletedDate is set.
// LastCompletedDate is a local date key ("YYYY-MM-DD"); empty means never
// completed.
type Habit struct {
	ID                string    `json:"id"                db:"id"`
	UserID            string    `json:"userId"            db:"user_id"`
	Title             string    `json:"title"             db:"title"`
	Description       string    `json:"description,omitempty" db:"description"`
	Category          Category  `json:"category"          db:"category"`
	StreakCount       int       `json:"streakCount"       db:"streak_count"`
	LastCompletedDate string    `json:"lastCompletedDate,omitempty" db:"last_completed_date"`
	CreatedAt         time.Time `json:"createdAt"         db:"created_at"`
	ReminderTime      string    `json:"reminderTime,omitempty" db:"reminder_time"` // "HH:MM" local, empty = none
	DurationMinutes   int       `json:"duration"          db:"duration_minutes"`   // 0 = no timer gate
	CheckInQuestion   string    `json:"checkInQuestion,omitempty" db:"check_in_question"`
}

// Mode derives the habit's check-in mode from its optional gates.
func (h *Habit) Mode() Mode {
	timed := h.DurationMinutes > 0
	questioned := h.CheckInQuestion != ""
	switch {
	case timed && questioned:
		return ModeTimedQuestioned
	case timed:
		return ModeTimed
	case questioned:
		return ModeQuestioned
	default:
		return ModePlain
	}
}

// SessionDuration is the minimum contiguous session length required before
// a timed habit may be checked in. Zero for untimed habits.
func (h *Habit) SessionDuration() time.Duration {
	return time.Duration(h.DurationMinutes) * time.Minute
}
