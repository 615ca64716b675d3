package model

import (
	"testing"
	"time"
)

func TestHabitMode(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		question string
		want     Mode
	}{
		{"no gates", 0, "", ModePlain},
		{"duration only", 25, "", ModeTimed},
		{"question only", 0, "What did you learn?", ModeQuestioned},
		{"both gates", 25, "What did you learn?", ModeTimedQuestioned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Habit{DurationMinutes: tt.duration, CheckInQuestion: tt.question}
			if got := h.Mode(); got != tt.want {
				t.Errorf("Mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionDuration(t *testing.T) {
	h := &Habit{DurationMinutes: 25}
	if got := h.SessionDuration(); got != 25*time.Minute {
		t.Errorf("SessionDuration() = %v, want %v", got, 25*time.Minute)
	}

	plain := &Habit{}
	if got := plain.SessionDuration(); got != 0 {
		t.Errorf("SessionDuration() = %v, want 0", got)
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("Valid(%q) = false, want true", c)
		}
	}
	if Category("Gaming").Valid() {
		t.Error(`Valid("Gaming") = true, want false`)
	}
}
