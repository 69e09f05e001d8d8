package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jgirmay/attendance/internal/health"
	"github.com/jgirmay/attendance/pkg/attendance"
	"github.com/jgirmay/attendance/pkg/auth"
	"github.com/jgirmay/attendance/pkg/database"
	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/logging"
	"github.com/jgirmay/attendance/pkg/metrics"
	"github.com/jgirmay/attendance/pkg/models"
	"github.com/jgirmay/attendance/pkg/realtime"
	"github.com/jgirmay/attendance/pkg/repository"
	"github.com/jgirmay/attendance/pkg/services"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type testServer struct {
	router *gin.Engine
	clock  *testClock
	hub    *realtime.Hub
}

func setupTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	registry := repository.NewRegistry(db)
	require.NoError(t, registry.Initialize())

	policy := attendance.DefaultPolicy()
	policy.Location = time.UTC
	m := metrics.NewMetrics()
	logger := logging.NewNop()
	hub := realtime.NewHub(logger, m.LiveClients, nil)
	t.Cleanup(hub.Close)

	sqlDB, err := db.DB()
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)}
	tokens := auth.NewTokenManager("test-secret", time.Hour, "attendance-tracker")

	router := NewRouter(Dependencies{
		Attendance: services.NewAttendanceService(registry.AttendanceRepository, policy, hub, m, logger),
		Dashboard:  services.NewDashboardService(registry.AttendanceRepository, registry.UserRepository, policy),
		Auth:       services.NewAuthService(registry.UserRepository, tokens, auth.NewPasswordHasher(bcrypt.MinCost), logger),
		Hub:        hub,
		Health:     health.NewHealthChecker(sqlDB, hub.ClientCount),
		Metrics:    m,
		Logger:     logger,
		Clock:      clock.Now,
	})
	return &testServer{router: router, clock: clock, hub: hub}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) register(t *testing.T, email, employeeID string, role models.Role) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Name:       "User " + employeeID,
		Email:      email,
		Password:   "secret1",
		EmployeeID: employeeID,
		Department: "Engineering",
		Role:       role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Errors  []struct {
		Field string `json:"field"`
	} `json:"errors"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func TestAuthRoutes(t *testing.T) {
	s := setupTestServer(t)
	token := s.register(t, "ada@example.com", "E-001", "")

	w := s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]interface{}
	decode(t, w, &me)
	assert.Equal(t, "ada@example.com", me["email"])
	assert.Equal(t, "E-001", me["employeeId"])
	assert.Equal(t, "employee", me["role"])
	assert.NotContains(t, me, "passwordHash")

	w = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ada@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "ada@example.com", Password: "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, apperrors.CodeUnauthenticated, body.Code)
	assert.Equal(t, "Invalid email or password", body.Message)

	w = s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{
		Name: "Dup", Email: "ada@example.com", Password: "secret1", EmployeeID: "E-002",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Ada",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, apperrors.CodeValidation, body.Code)

	fields := map[string]bool{}
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.True(t, fields["employeeId"])

	w = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1", "employeeId": "E-1", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAttendanceLifecycle(t *testing.T) {
	s := setupTestServer(t)
	token := s.register(t, "ada@example.com", "E-001", "")

	w := s.do(t, http.MethodGet, "/api/attendance/today", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = s.do(t, http.MethodPost, "/api/attendance/checkout", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body errorBody
	decode(t, w, &body)
	assert.Equal(t, apperrors.CodeNotCheckedIn, body.Code)
	assert.Equal(t, "You have not checked in today", body.Message)

	w = s.do(t, http.MethodPost, "/api/attendance/checkin", token, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var rec map[string]interface{}
	decode(t, w, &rec)
	assert.Equal(t, "present", rec["status"])
	assert.Nil(t, rec["checkOutTime"])
	assert.NotContains(t, rec, "day")

	w = s.do(t, http.MethodPost, "/api/attendance/checkin", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, apperrors.CodeAlreadyCheckedIn, body.Code)
	assert.Equal(t, "Already checked in today", body.Message)

	s.clock.Set(time.Date(2024, 3, 13, 17, 30, 0, 0, time.UTC))
	w = s.do(t, http.MethodPost, "/api/attendance/checkout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &rec)
	assert.Equal(t, 8.5, rec["totalHours"])
	assert.Equal(t, "present", rec["status"])
	assert.NotNil(t, rec["checkOutTime"])

	w = s.do(t, http.MethodPost, "/api/attendance/checkout", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &body)
	assert.Equal(t, apperrors.CodeAlreadyCheckedOut, body.Code)

	w = s.do(t, http.MethodGet, "/api/attendance/my-history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []map[string]interface{}
	decode(t, w, &history)
	assert.Len(t, history, 1)

	w = s.do(t, http.MethodGet, "/api/dashboard/employee", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.EmployeeStats
	decode(t, w, &stats)
	assert.Equal(t, models.EmployeeStats{Present: 1, TotalHours: "8.50"}, stats)
}

func TestManagerRoutes(t *testing.T) {
	s := setupTestServer(t)
	employee := s.register(t, "ada@example.com", "E-001", "")
	s.register(t, "bob@example.com", "E-002", "")
	manager := s.register(t, "grace@example.com", "M-001", models.RoleManager)

	s.clock.Set(time.Date(2024, 3, 13, 10, 15, 0, 0, time.UTC))
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/attendance/checkin", employee, nil).Code)

	for _, path := range []string{"/api/attendance/all", "/api/attendance/export", "/api/dashboard/manager"} {
		w := s.do(t, http.MethodGet, path, employee, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, path)
	}

	w := s.do(t, http.MethodGet, "/api/attendance/all", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.AttendanceRecord
	decode(t, w, &all)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "E-001", all[0].User.EmployeeID)
	assert.Equal(t, models.StatusLate, all[0].Status)

	w = s.do(t, http.MethodGet, "/api/attendance/all?startDate=2024-03-01&endDate=2024-03-12", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &all)
	assert.Empty(t, all)

	w = s.do(t, http.MethodGet, "/api/attendance/all?startDate=bogus&endDate=2024-03-12", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/attendance/export?startDate=2024-03-01&endDate=2024-03-31", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_2024-03-01_to_2024-03-31.csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Employee Name,Employee ID,Date,Status,Check In,Check Out,Total Hours", lines[0])
	assert.Equal(t, "User E-001,E-001,13 Mar 2024,late,10:15:00,-,0.00", lines[1])

	w = s.do(t, http.MethodGet, "/api/dashboard/manager", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.ManagerStats
	decode(t, w, &stats)
	assert.Equal(t, int64(2), stats.TotalEmployees)
	assert.Equal(t, 1, stats.PresentCount)
	assert.Equal(t, 1, stats.LateCount)
	assert.Equal(t, 1, stats.AbsentCount)
	require.Len(t, stats.WeeklyStats, 7)
	assert.Equal(t, "Wed", stats.WeeklyStats[6].Name)
	assert.Equal(t, 1, stats.WeeklyStats[6].Late)
	assert.Equal(t, 2, stats.WeeklyStats[0].Absent)
}

func TestLiveFeed(t *testing.T) {
	s := setupTestServer(t)
	employee := s.register(t, "ada@example.com", "E-001", "")
	manager := s.register(t, "grace@example.com", "M-001", models.RoleManager)

	server := httptest.NewServer(s.router)
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/dashboard/live"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+employee, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+manager, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/attendance/checkin", employee, nil).Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev realtime.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, realtime.EventCheckIn, ev.Type)
	require.NotNil(t, ev.Record)
	assert.Equal(t, models.StatusPresent, ev.Record.Status)
}

func TestOperationalRoutes(t *testing.T) {
	s := setupTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/health/readiness", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s.do(t, http.MethodGet, "/api/attendance/today", "", nil)
	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "attendance_http_request_duration_seconds")
}
