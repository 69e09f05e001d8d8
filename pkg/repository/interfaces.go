package repository

import (
	"context"
	"errors"

	"github.com/jgirmay/attendance/pkg/models"
)

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

// AttendanceRepository persists attendance records. Day arguments are
// YYYY-MM-DD keys; ranges are inclusive on both ends.
type AttendanceRepository interface {
	FindByUserAndDay(ctx context.Context, userID, day string) (*models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	// Close writes the check-out fields only if the record is still open.
	// It reports false when another writer closed it first.
	Close(ctx context.Context, record *models.AttendanceRecord) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.AttendanceRecord, error)
	ListByUserInRange(ctx context.Context, userID, startDay, endDay string) ([]models.AttendanceRecord, error)
	ListByDayRange(ctx context.Context, startDay, endDay string) ([]models.AttendanceRecord, error)
	ListWithUsers(ctx context.Context, filter models.RecordFilter) ([]models.AttendanceRecord, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}
