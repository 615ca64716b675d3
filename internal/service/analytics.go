package service

import (
	"context"
	"fmt"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/dateutil"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// Badge is a derived achievement tier. Badges are never stored; they are
// recomputed from the user's best streak on every read.
type Badge struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
	Earned    bool   `json:"earned"`
}

// badgeTiers in ascending threshold order.
var badgeTiers = []struct {
	name      string
	threshold int
}{
	{"Starter", 3},
	{"Consistent", 7},
	{"Legend", 30},
	{"Pro", 60},
}

// DayActivity is one bucket of the weekly histogram.
type DayActivity struct {
	Date     string `json:"date"`    // local date key
	Weekday  string `json:"weekday"` // "Mon".."Sun"
	CheckIns int    `json:"checkIns"`
}

// Stats is the per-user analytics snapshot served to the profile view.
type Stats struct {
	TotalHabits        int           `json:"totalHabits"`
	TotalCheckIns      int           `json:"totalCheckIns"`
	BestStreak         int           `json:"bestStreak"`
	TotalActiveStreaks int           `json:"totalActiveStreaks"`
	WeeklyActivity     []DayActivity `json:"weeklyActivity"`
	Badges             []Badge       `json:"badges"`
}

// AnalyticsService derives read-side statistics from habits and logs. It
// never writes.
type AnalyticsService struct {
	habits repository.HabitRepository
	logs   repository.LogRepository
	now    func() time.Time
}

// NewAnalyticsService creates an AnalyticsService using the wall clock.
func NewAnalyticsService(habits repository.HabitRepository, logs repository.LogRepository) *AnalyticsService {
	return &AnalyticsService{
		habits: habits,
		logs:   logs,
		now:    time.Now,
	}
}

// Stats computes the full analytics snapshot for userID.
//
// WeeklyActivity always has exactly 7 entries covering the 7 local days
// ending today, oldest first; days without check-ins appear with a zero
// count. BestStreak is the max current streak across habits, 0 with no
// habits.
func (s *AnalyticsService) Stats(ctx context.Context, userID string) (*Stats, error) {
	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/analytics: listing habits: %w", err)
	}

	total, err := s.logs.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/analytics: counting logs: %w", err)
	}

	best, active := 0, 0
	for _, h := range habits {
		if h.StreakCount > best {
			best = h.StreakCount
		}
		if h.StreakCount > 0 {
			active++
		}
	}

	weekly, err := s.weeklyActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges := make([]Badge, 0, len(badgeTiers))
	for _, tier := range badgeTiers {
		badges = append(badges, Badge{
			Name:      tier.name,
			Threshold: tier.threshold,
			Earned:    best >= tier.threshold,
		})
	}

	return &Stats{
		TotalHabits:        len(habits),
		TotalCheckIns:      total,
		BestStreak:         best,
		TotalActiveStreaks: active,
		WeeklyActivity:     weekly,
		Badges:             badges,
	}, nil
}

func (s *AnalyticsService) weeklyActivity(ctx context.Context, userID string) ([]DayActivity, error) {
	now := s.now()
	from := now.AddDate(0, 0, -6)

	logs, err := s.logs.ListByUserSince(ctx, userID, dateutil.Key(from))
	if err != nil {
		return nil, fmt.Errorf("service/analytics: listing recent logs: %w", err)
	}

	counts := make(map[string]int, len(logs))
	for _, l := range logs {
		counts[l.Date]++
	}

	days := make([]DayActivity, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := dateutil.Key(day)
		days = append(days, DayActivity{
			Date:     key,
			Weekday:  dateutil.WeekdayLabel(day),
			CheckIns: counts[key],
		})
	}
	return days, nil
}
