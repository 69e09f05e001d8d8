// Package reports renders attendance listings for download.
package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jgirmay/attendance/pkg/attendance"
	"github.com/jgirmay/attendance/pkg/models"
)

const (
	dateLayout = "02 Jan 2006"
	timeLayout = "15:04:05"
	missing    = "-"
)

// Header is the first row of every export.
var Header = []string{"Employee Name", "Employee ID", "Date", "Status", "Check In", "Check Out", "Total Hours"}

// CSVWriter writes attendance records with times shown in the policy
// timezone.
type CSVWriter struct {
	location *time.Location
}

// NewCSVWriter creates a writer for the given policy.
func NewCSVWriter(policy attendance.Policy) *CSVWriter {
	loc := policy.Location
	if loc == nil {
		loc = time.Local
	}
	return &CSVWriter{location: loc}
}

// Write renders records to w. Records without a populated user get blank
// name and ID columns.
func (cw *CSVWriter) Write(w io.Writer, records []models.AttendanceRecord) error {
	out := csv.NewWriter(w)
	if err := out.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range records {
		if err := out.Write(cw.row(&records[i])); err != nil {
			return fmt.Errorf("failed to write record %s: %w", records[i].ID, err)
		}
	}
	out.Flush()
	return out.Error()
}

// Filename names an export for the given range.
func Filename(filter models.RecordFilter) string {
	if filter.HasRange() {
		return fmt.Sprintf("attendance_%s_to_%s.csv", filter.StartDay, filter.EndDay)
	}
	return "attendance_all.csv"
}

func (cw *CSVWriter) row(r *models.AttendanceRecord) []string {
	var name, employeeID string
	if r.User != nil {
		name = r.User.Name
		employeeID = r.User.EmployeeID
	}

	date := r.Day
	if parsed, err := time.Parse(attendance.DayLayout, r.Day); err == nil {
		date = parsed.Format(dateLayout)
	}

	checkIn := missing
	if !r.CheckInTime.IsZero() {
		checkIn = r.CheckInTime.In(cw.location).Format(timeLayout)
	}
	checkOut := missing
	if r.CheckOutTime != nil {
		checkOut = r.CheckOutTime.In(cw.location).Format(timeLayout)
	}

	return []string{
		name,
		employeeID,
		date,
		string(r.Status),
		checkIn,
		checkOut,
		attendance.FormatHours(r.TotalHours),
	}
}
