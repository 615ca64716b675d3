package service

import (
	"context"
	"testing"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/model"
)

func newAnalyticsFixture(t *testing.T) (*AnalyticsService, *mockHabitRepo, *mockLogRepo) {
	t.Helper()
	habits, logs := newMockStore()
	svc := NewAnalyticsService(habits, logs)
	svc.now = func() time.Time { return time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local) }
	return svc, habits, logs
}

func seedHabit(t *testing.T, habits *mockHabitRepo, userID string, streak int) *model.Habit {
	t.Helper()
	h := &model.Habit{UserID: userID, Title: "h", Category: model.CategoryPersonal}
	if err := habits.Create(context.Background(), h); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if streak > 0 {
		h.StreakCount = streak
		h.LastCompletedDate = "2025-06-09"
		if err := habits.Update(context.Background(), h); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	return h
}

func TestStats_EmptyUser(t *testing.T) {
	svc, _, _ := newAnalyticsFixture(t)

	stats, err := svc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalHabits != 0 || stats.TotalCheckIns != 0 || stats.BestStreak != 0 || stats.TotalActiveStreaks != 0 {
		t.Errorf("counts = %+v, want all zero", stats)
	}
	if len(stats.WeeklyActivity) != 7 {
		t.Fatalf("WeeklyActivity has %d entries, want 7", len(stats.WeeklyActivity))
	}
	for i, day := range stats.WeeklyActivity {
		if day.CheckIns != 0 {
			t.Errorf("day %d CheckIns = %d, want 0", i, day.CheckIns)
		}
	}
	if first, last := stats.WeeklyActivity[0].Date, stats.WeeklyActivity[6].Date; first != "2025-06-04" || last != "2025-06-10" {
		t.Errorf("window = [%s, %s], want [2025-06-04, 2025-06-10]", first, last)
	}
	for _, b := range stats.Badges {
		if b.Earned {
			t.Errorf("badge %s earned with no habits", b.Name)
		}
	}
}

func TestStats_BestStreakAndBadges(t *testing.T) {
	svc, habits, _ := newAnalyticsFixture(t)
	seedHabit(t, habits, "user-1", 12)
	seedHabit(t, habits, "user-1", 4)
	seedHabit(t, habits, "user-1", 0)
	seedHabit(t, habits, "user-2", 99) // someone else's habit must not leak in

	stats, err := svc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalHabits != 3 {
		t.Errorf("TotalHabits = %d, want 3", stats.TotalHabits)
	}
	if stats.BestStreak != 12 {
		t.Errorf("BestStreak = %d, want 12", stats.BestStreak)
	}
	if stats.TotalActiveStreaks != 2 {
		t.Errorf("TotalActiveStreaks = %d, want 2", stats.TotalActiveStreaks)
	}

	earned := map[string]bool{}
	for _, b := range stats.Badges {
		earned[b.Name] = b.Earned
	}
	want := map[string]bool{"Starter": true, "Consistent": true, "Legend": false, "Pro": false}
	for name, w := range want {
		if earned[name] != w {
			t.Errorf("badge %s earned = %v, want %v", name, earned[name], w)
		}
	}
}

func TestStats_WeeklyActivityBuckets(t *testing.T) {
	svc, habits, logs := newAnalyticsFixture(t)
	h := seedHabit(t, habits, "user-1", 0)

	dates := []string{
		"2025-06-10", // today: 1
		"2025-06-08", "2025-06-08", // skip a day, double up (two habits would do this)
		"2025-06-04", // oldest day of the window
		"2025-06-03", // outside the window, must not appear
	}
	h2 := seedHabit(t, habits, "user-1", 0)
	ids := []string{h.ID, h2.ID, h.ID, h.ID, h.ID}
	for i, date := range dates {
		if err := logs.Create(context.Background(), &model.HabitLog{HabitID: ids[i], Date: date}); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	wantCounts := []int{1, 0, 0, 0, 2, 0, 1} // 06-04 .. 06-10
	for i, day := range stats.WeeklyActivity {
		if day.CheckIns != wantCounts[i] {
			t.Errorf("day %s CheckIns = %d, want %d", day.Date, day.CheckIns, wantCounts[i])
		}
	}
	if stats.TotalCheckIns != 5 {
		t.Errorf("TotalCheckIns = %d, want 5 (window does not limit the total)", stats.TotalCheckIns)
	}

	// 2025-06-10 is a Tuesday.
	if got := stats.WeeklyActivity[6].Weekday; got != "Tue" {
		t.Errorf("today's weekday label = %q, want %q", got, "Tue")
	}
}
