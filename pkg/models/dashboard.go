package models

// EmployeeStats is the monthly summary for one employee.
type EmployeeStats struct {
	Present int `json:"present"`
	Late    int `json:"late"`
	HalfDay int `json:"halfDay"`
	// Absent counts explicit absent records only; days without any record
	// are not counted.
	Absent     int    `json:"absent"`
	TotalHours string `json:"totalHours"`
}

// DailyStats summarizes one day across the organization.
type DailyStats struct {
	TotalEmployees int64 `json:"totalEmployees"`
	PresentCount   int   `json:"presentCount"`
	AbsentCount    int   `json:"absentCount"`
	LateCount      int   `json:"lateCount"`
}

// WeeklyStat is one day of the trailing seven-day series.
type WeeklyStat struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
}

// ManagerStats is the manager dashboard payload.
type ManagerStats struct {
	DailyStats
	WeeklyStats []WeeklyStat `json:"weeklyStats"`
}
