package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jgirmay/attendance/pkg/models"
)

// attendanceRepositoryImpl implements AttendanceRepository
type attendanceRepositoryImpl struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// FindByUserAndDay returns the user's record for day, or nil when none exists.
func (r *attendanceRepositoryImpl) FindByUserAndDay(ctx context.Context, userID, day string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND day = ?", userID, day).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

// Create inserts a new record, assigning its ID.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Close sets the check-out fields guarded by check_out_time IS NULL.
func (r *attendanceRepositoryImpl) Close(ctx context.Context, record *models.AttendanceRecord) (bool, error) {
	record.UpdatedAt = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ? AND check_out_time IS NULL", record.ID).
		Updates(map[string]interface{}{
			"check_out_time": record.CheckOutTime,
			"total_hours":    record.TotalHours,
			"status":         record.Status,
			"updated_at":     record.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByUser returns every record of the user, newest day first.
func (r *attendanceRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day DESC").
		Find(&records)
	return records, result.Error
}

// ListByUserInRange returns the user's records between two days.
func (r *attendanceRepositoryImpl) ListByUserInRange(ctx context.Context, userID, startDay, endDay string) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND day >= ? AND day <= ?", userID, startDay, endDay).
		Order("day DESC").
		Find(&records)
	return records, result.Error
}

// ListByDayRange returns all users' records between two days.
func (r *attendanceRepositoryImpl) ListByDayRange(ctx context.Context, startDay, endDay string) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}
	result := r.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", startDay, endDay).
		Order("day DESC").
		Find(&records)
	return records, result.Error
}

// ListWithUsers returns records with their owners loaded, newest first.
func (r *attendanceRepositoryImpl) ListWithUsers(ctx context.Context, filter models.RecordFilter) ([]models.AttendanceRecord, error) {
	records := []models.AttendanceRecord{}
	query := r.db.WithContext(ctx).Preload("User")
	if filter.HasRange() {
		query = query.Where("day >= ? AND day <= ?", filter.StartDay, filter.EndDay)
	}
	result := query.Order("day DESC").Order("check_in_time DESC").Find(&records)
	return records, result.Error
}

// isDuplicate detects unique violations. TranslateError covers the drivers
// we ship; the string checks catch connections opened without it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
