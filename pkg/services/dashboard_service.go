package services

import (
	"context"
	"time"

	"github.com/jgirmay/attendance/pkg/attendance"
	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/models"
	"github.com/jgirmay/attendance/pkg/repository"
)

// WeeklySeriesDays is the length of the manager dashboard series.
const WeeklySeriesDays = 7

// DashboardService computes read-only summaries over attendance records.
type DashboardService struct {
	records repository.AttendanceRepository
	users   repository.UserRepository
	policy  attendance.Policy
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(records repository.AttendanceRepository, users repository.UserRepository, policy attendance.Policy) *DashboardService {
	return &DashboardService{records: records, users: users, policy: policy}
}

// EmployeeMonthlyStats summarizes userID's records in the month containing ref.
func (s *DashboardService) EmployeeMonthlyStats(ctx context.Context, userID string, ref time.Time) (*models.EmployeeStats, error) {
	first, last := s.policy.MonthRange(ref)
	records, err := s.records.ListByUserInRange(ctx, userID, first, last)
	if err != nil {
		return nil, apperrors.StoreUnavailable("load monthly attendance", err)
	}

	stats := &models.EmployeeStats{}
	var hours float64
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			stats.Present++
		case models.StatusLate:
			stats.Late++
		case models.StatusHalfDay:
			stats.HalfDay++
		case models.StatusAbsent:
			stats.Absent++
		}
		hours += r.TotalHours
	}
	stats.TotalHours = attendance.FormatHours(hours)
	return stats, nil
}

// OrganizationDailyStats summarizes the day containing asOf. Every record of
// the day counts as present; absent is the remainder of employees, never
// below zero.
func (s *DashboardService) OrganizationDailyStats(ctx context.Context, asOf time.Time) (*models.DailyStats, error) {
	total, err := s.users.CountByRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, apperrors.StoreUnavailable("count employees", err)
	}

	day := s.policy.DayKey(asOf)
	records, err := s.records.ListByDayRange(ctx, day, day)
	if err != nil {
		return nil, apperrors.StoreUnavailable("load daily attendance", err)
	}

	stats := &models.DailyStats{
		TotalEmployees: total,
		PresentCount:   len(records),
	}
	for _, r := range records {
		if r.Status == models.StatusLate {
			stats.LateCount++
		}
	}
	stats.AbsentCount = clampAbsent(total, stats.PresentCount)
	return stats, nil
}

// OrganizationWeeklySeries returns the seven days ending at asOf, oldest
// first. Half-days count as present.
func (s *DashboardService) OrganizationWeeklySeries(ctx context.Context, asOf time.Time) ([]models.WeeklyStat, error) {
	total, err := s.users.CountByRole(ctx, models.RoleEmployee)
	if err != nil {
		return nil, apperrors.StoreUnavailable("count employees", err)
	}
	return s.weeklySeries(ctx, asOf, total)
}

func (s *DashboardService) weeklySeries(ctx context.Context, asOf time.Time, total int64) ([]models.WeeklyStat, error) {
	days := s.policy.TrailingDays(asOf, WeeklySeriesDays)
	first := days[0].Format(attendance.DayLayout)
	last := days[len(days)-1].Format(attendance.DayLayout)

	records, err := s.records.ListByDayRange(ctx, first, last)
	if err != nil {
		return nil, apperrors.StoreUnavailable("load weekly attendance", err)
	}

	type bucket struct{ present, late int }
	buckets := make(map[string]*bucket, len(days))
	for _, r := range records {
		b, ok := buckets[r.Day]
		if !ok {
			b = &bucket{}
			buckets[r.Day] = b
		}
		switch r.Status {
		case models.StatusPresent, models.StatusHalfDay:
			b.present++
		case models.StatusLate:
			b.late++
		}
	}

	series := make([]models.WeeklyStat, 0, len(days))
	for _, d := range days {
		key := d.Format(attendance.DayLayout)
		entry := models.WeeklyStat{Name: d.Format("Mon"), Date: key}
		if b, ok := buckets[key]; ok {
			entry.Present = b.present
			entry.Late = b.late
		}
		entry.Absent = clampAbsent(total, entry.Present+entry.Late)
		series = append(series, entry)
	}
	return series, nil
}

// ManagerStats combines today's totals with the weekly series.
func (s *DashboardService) ManagerStats(ctx context.Context, asOf time.Time) (*models.ManagerStats, error) {
	daily, err := s.OrganizationDailyStats(ctx, asOf)
	if err != nil {
		return nil, err
	}
	weekly, err := s.weeklySeries(ctx, asOf, daily.TotalEmployees)
	if err != nil {
		return nil, err
	}
	return &models.ManagerStats{DailyStats: *daily, WeeklyStats: weekly}, nil
}

func clampAbsent(total int64, attended int) int {
	absent := int(total) - attended
	if absent < 0 {
		return 0
	}
	return absent
}
