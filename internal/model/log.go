package model

// LogStatus is the recorded outcome for a habit on a given day.
//
// Normal flow only ever writes StatusCompleted. StatusMissed is reserved:
// the type admits it for future use but no code path produces it.
type LogStatus string

const (
	StatusCompleted LogStatus = "completed"
	StatusMissed    LogStatus = "missed"
)

// HabitLog records one check-in. At most one completed log exists per
// (habit, date); the store enforces this with a unique index.
type HabitLog struct {
	ID      string    `json:"id"      db:"id"`
	HabitID string    `json:"habitId" db:"habit_id"`
	Date    string    `json:"date"    db:"date"` // local date key "YYYY-MM-DD"
	Status  LogStatus `json:"status"  db:"status"`
	Answer  string    `json:"answer,omitempty" db:"answer"`
}
