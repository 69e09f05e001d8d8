// Package client is a Go client for the attendance API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/models"
)

// Client calls the attendance API. It holds no identity of its own; every
// authenticated call takes a Session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL, e.g.
// "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register creates an account and signs sess in as it.
func (c *Client) Register(ctx context.Context, sess *Session, req models.RegisterRequest) (*models.User, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, nil, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	sess.set(&resp)
	return resp.User, nil
}

// Login signs sess in.
func (c *Client) Login(ctx context.Context, sess *Session, email, password string) (*models.User, error) {
	var resp models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	sess.set(&resp)
	return resp.User, nil
}

// Logout signs sess out. Tokens are stateless, so the server is not called.
func (c *Client) Logout(sess *Session) {
	sess.Clear()
}

// Me returns the account behind sess.
func (c *Client) Me(ctx context.Context, sess *Session) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, sess, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckIn opens today's record.
func (c *Client) CheckIn(ctx context.Context, sess *Session) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	if err := c.do(ctx, sess, http.MethodPost, "/attendance/checkin", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CheckOut closes today's record.
func (c *Client) CheckOut(ctx context.Context, sess *Session) (*models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	if err := c.do(ctx, sess, http.MethodPost, "/attendance/checkout", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Today returns today's record, or nil before check-in.
func (c *Client) Today(ctx context.Context, sess *Session) (*models.AttendanceRecord, error) {
	var rec *models.AttendanceRecord
	if err := c.do(ctx, sess, http.MethodGet, "/attendance/today", nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// History returns the caller's records, newest first.
func (c *Client) History(ctx context.Context, sess *Session) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	if err := c.do(ctx, sess, http.MethodGet, "/attendance/my-history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AllAttendance lists every user's records. The range applies only when both
// bounds are non-empty. Managers only.
func (c *Client) AllAttendance(ctx context.Context, sess *Session, startDate, endDate string) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	path := "/attendance/all" + rangeQuery(startDate, endDate)
	if err := c.do(ctx, sess, http.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ExportCSV downloads the manager listing as CSV.
func (c *Client) ExportCSV(ctx context.Context, sess *Session, startDate, endDate string) ([]byte, error) {
	resp, err := c.send(ctx, sess, http.MethodGet, "/attendance/export"+rangeQuery(startDate, endDate), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// EmployeeStats returns the caller's stats for the current month.
func (c *Client) EmployeeStats(ctx context.Context, sess *Session) (*models.EmployeeStats, error) {
	var stats models.EmployeeStats
	if err := c.do(ctx, sess, http.MethodGet, "/dashboard/employee", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ManagerStats returns today's totals and the weekly series. Managers only.
func (c *Client) ManagerStats(ctx context.Context, sess *Session) (*models.ManagerStats, error) {
	var stats models.ManagerStats
	if err := c.do(ctx, sess, http.MethodGet, "/dashboard/manager", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func rangeQuery(startDate, endDate string) string {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, sess *Session, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, sess, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// send performs the request and returns the response only on 2xx. A 401
// clears sess.
func (c *Client) send(ctx context.Context, sess *Session, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if sess != nil {
		if token := sess.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && sess != nil {
		sess.Clear()
	}
	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) *apperrors.AppError {
	appErr := &apperrors.AppError{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(appErr); err != nil || appErr.Code == "" {
		appErr.Code = codeForStatus(resp.StatusCode)
	}
	if appErr.Message == "" {
		appErr.Message = http.StatusText(resp.StatusCode)
	}
	return appErr
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return apperrors.CodeUnauthenticated
	case http.StatusForbidden:
		return apperrors.CodeForbidden
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusConflict:
		return apperrors.CodeConflict
	case http.StatusBadRequest:
		return apperrors.CodeValidation
	}
	return apperrors.CodeStoreUnavailable
}
