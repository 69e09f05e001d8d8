package models

import (
	"time"
)

// Status is the derived attendance status of a record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// AttendanceRecord is one user's attendance for one calendar day.
//
// Status and TotalHours are only ever written by the attendance policy at
// check-in and check-out; no request type binds them.
type AttendanceRecord struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_user_day,priority:1" json:"userId"`
	// Day is the YYYY-MM-DD key of Date in the organization timezone.
	Day          string     `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_user_day,priority:2;index:idx_attendance_day" json:"-"`
	Date         time.Time  `gorm:"not null" json:"date"`
	CheckInTime  time.Time  `gorm:"not null" json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime"`
	Status       Status     `gorm:"type:varchar(16);not null;default:absent" json:"status"`
	TotalHours   float64    `gorm:"not null;default:0" json:"totalHours"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	User         *User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// TableName overrides the default table name.
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// CheckedOut reports whether the record has been closed.
func (r *AttendanceRecord) CheckedOut() bool {
	return r.CheckOutTime != nil
}

// RecordFilter narrows manager listings. Both bounds are inclusive day keys;
// the range applies only when both are set.
type RecordFilter struct {
	StartDay string
	EndDay   string
}

// HasRange reports whether the filter carries a complete day range.
func (f RecordFilter) HasRange() bool {
	return f.StartDay != "" && f.EndDay != ""
}
