package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jgirmay/attendance/pkg/attendance"
	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/metrics"
	"github.com/jgirmay/attendance/pkg/models"
	"github.com/jgirmay/attendance/pkg/realtime"
	"github.com/jgirmay/attendance/pkg/repository"
)

// AttendanceService drives the per-user daily check-in/check-out lifecycle.
type AttendanceService struct {
	records   repository.AttendanceRepository
	policy    attendance.Policy
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewAttendanceService creates the service. publisher and m may be nil.
func NewAttendanceService(
	records repository.AttendanceRepository,
	policy attendance.Policy,
	publisher realtime.Publisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *AttendanceService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AttendanceService{
		records:   records,
		policy:    policy,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Policy returns the rules the service applies.
func (s *AttendanceService) Policy() attendance.Policy {
	return s.policy
}

// CheckIn opens today's record for userID.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string, now time.Time) (*models.AttendanceRecord, error) {
	date, day := s.policy.DayOf(now)

	existing, err := s.records.FindByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, apperrors.StoreUnavailable("look up today's attendance", err)
	}
	if existing != nil {
		return nil, s.reject(apperrors.AlreadyCheckedIn())
	}

	record := &models.AttendanceRecord{
		UserID:      userID,
		Day:         day,
		Date:        date,
		CheckInTime: now,
		Status:      s.policy.CheckInStatus(now),
	}
	if err := s.records.Create(ctx, record); err != nil {
		// A concurrent check-in won the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.reject(apperrors.AlreadyCheckedIn())
		}
		return nil, apperrors.StoreUnavailable("record check-in", err)
	}

	if s.metrics != nil {
		s.metrics.CheckIns.WithLabelValues(string(record.Status)).Inc()
	}
	s.logger.Info("checked in",
		zap.String("user_id", userID),
		zap.String("day", day),
		zap.String("status", string(record.Status)))
	s.publisher.Publish(realtime.Event{Type: realtime.EventCheckIn, Record: record, At: now})
	return record, nil
}

// CheckOut closes today's record for userID.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string, now time.Time) (*models.AttendanceRecord, error) {
	day := s.policy.DayKey(now)

	record, err := s.records.FindByUserAndDay(ctx, userID, day)
	if err != nil {
		return nil, apperrors.StoreUnavailable("look up today's attendance", err)
	}
	if record == nil {
		return nil, s.reject(apperrors.NotCheckedIn())
	}
	if record.CheckedOut() {
		return nil, s.reject(apperrors.AlreadyCheckedOut())
	}

	hours, status, err := s.policy.CheckOut(record.CheckInTime, record.Status, now)
	if err != nil {
		return nil, s.reject(apperrors.From(err))
	}

	checkOut := now
	record.CheckOutTime = &checkOut
	record.TotalHours = hours
	record.Status = status

	closed, err := s.records.Close(ctx, record)
	if err != nil {
		return nil, apperrors.StoreUnavailable("record check-out", err)
	}
	if !closed {
		return nil, s.reject(apperrors.AlreadyCheckedOut())
	}

	if s.metrics != nil {
		s.metrics.CheckOuts.WithLabelValues(string(status)).Inc()
	}
	s.logger.Info("checked out",
		zap.String("user_id", userID),
		zap.String("day", day),
		zap.String("status", string(status)),
		zap.Float64("total_hours", hours))
	s.publisher.Publish(realtime.Event{Type: realtime.EventCheckOut, Record: record, At: now})
	return record, nil
}

// TodayStatus returns today's record for userID, or nil if there is none.
func (s *AttendanceService) TodayStatus(ctx context.Context, userID string, now time.Time) (*models.AttendanceRecord, error) {
	record, err := s.records.FindByUserAndDay(ctx, userID, s.policy.DayKey(now))
	if err != nil {
		return nil, apperrors.StoreUnavailable("look up today's attendance", err)
	}
	return record, nil
}

// History returns every record of userID, newest first.
func (s *AttendanceService) History(ctx context.Context, userID string) ([]models.AttendanceRecord, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.StoreUnavailable("load attendance history", err)
	}
	return nonNil(records), nil
}

// ListAll returns records across all users with their owners populated,
// newest first. The range applies only when both bounds are given; each
// bound may be a date or an RFC 3339 timestamp.
func (s *AttendanceService) ListAll(ctx context.Context, startDate, endDate string) ([]models.AttendanceRecord, error) {
	filter, err := s.Filter(startDate, endDate)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListWithUsers(ctx, filter)
	if err != nil {
		return nil, apperrors.StoreUnavailable("load attendance records", err)
	}
	return nonNil(records), nil
}

// Filter parses listing bounds into day keys.
func (s *AttendanceService) Filter(startDate, endDate string) (models.RecordFilter, error) {
	start, err := s.policy.ParseDay(startDate)
	if err != nil {
		return models.RecordFilter{}, err
	}
	end, err := s.policy.ParseDay(endDate)
	if err != nil {
		return models.RecordFilter{}, err
	}
	filter := models.RecordFilter{StartDay: start, EndDay: end}
	if filter.HasRange() && filter.StartDay > filter.EndDay {
		return models.RecordFilter{}, apperrors.Validation("invalid date range", "startDate is after endDate")
	}
	return filter, nil
}

func (s *AttendanceService) reject(err *apperrors.AppError) *apperrors.AppError {
	if s.metrics != nil {
		s.metrics.Rejections.WithLabelValues(err.Code).Inc()
	}
	return err
}

func nonNil(records []models.AttendanceRecord) []models.AttendanceRecord {
	if records == nil {
		return []models.AttendanceRecord{}
	}
	return records
}
