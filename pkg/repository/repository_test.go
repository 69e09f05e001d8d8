package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jgirmay/attendance/pkg/database"
	"github.com/jgirmay/attendance/pkg/models"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func seedUser(t *testing.T, repo UserRepository, email, employeeID string, role models.Role) *models.User {
	user := &models.User{
		Name:         "User " + employeeID,
		Email:        email,
		PasswordHash: "hash",
		EmployeeID:   employeeID,
		Department:   "Engineering",
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func record(userID, day string, status models.Status) *models.AttendanceRecord {
	date, _ := time.Parse("2006-01-02", day)
	return &models.AttendanceRecord{
		UserID:      userID,
		Day:         day,
		Date:        date,
		CheckInTime: date.Add(9 * time.Hour),
		Status:      status,
	}
}

func TestRegistry_Initialize(t *testing.T) {
	reg := NewRegistry(setupTestDB(t))
	require.NoError(t, reg.Initialize())

	assert.NotNil(t, reg.AttendanceRepository)
	assert.NotNil(t, reg.UserRepository)
	assert.NotNil(t, reg.GetDB())

	assert.Error(t, NewRegistry(nil).Initialize())
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	user := seedUser(t, repo, " Ada@Example.com ", "E-001", models.RoleEmployee)
	assert.NotEmpty(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "E-001", byID.EmployeeID)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	seedUser(t, repo, "ada@example.com", "E-001", models.RoleEmployee)

	err := repo.Create(context.Background(), &models.User{
		Name: "Other", Email: "ada@example.com", PasswordHash: "x", EmployeeID: "E-002", Role: models.RoleEmployee,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserRepository_CountByRole(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	seedUser(t, repo, "a@example.com", "E-1", models.RoleEmployee)
	seedUser(t, repo, "b@example.com", "E-2", models.RoleEmployee)
	seedUser(t, repo, "m@example.com", "M-1", models.RoleManager)

	count, err := repo.CountByRole(context.Background(), models.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAttendanceRepository_UniqueUserDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAttendanceRepository(db)
	user := seedUser(t, users, "a@example.com", "E-1", models.RoleEmployee)

	first := record(user.ID, "2024-03-12", models.StatusPresent)
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.ID)

	err := repo.Create(ctx, record(user.ID, "2024-03-12", models.StatusLate))
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, repo.Create(ctx, record(user.ID, "2024-03-13", models.StatusLate)))
}

func TestAttendanceRepository_FindByUserAndDay(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := seedUser(t, NewUserRepository(db), "a@example.com", "E-1", models.RoleEmployee)
	repo := NewAttendanceRepository(db)

	found, err := repo.FindByUserAndDay(ctx, user.ID, "2024-03-12")
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.Create(ctx, record(user.ID, "2024-03-12", models.StatusPresent)))

	found, err = repo.FindByUserAndDay(ctx, user.ID, "2024-03-12")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.StatusPresent, found.Status)
	assert.False(t, found.CheckedOut())
}

func TestAttendanceRepository_CloseOnlyOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user := seedUser(t, NewUserRepository(db), "a@example.com", "E-1", models.RoleEmployee)
	repo := NewAttendanceRepository(db)

	rec := record(user.ID, "2024-03-12", models.StatusPresent)
	require.NoError(t, repo.Create(ctx, rec))

	out := rec.CheckInTime.Add(8 * time.Hour)
	rec.CheckOutTime = &out
	rec.TotalHours = 8
	closed, err := repo.Close(ctx, rec)
	require.NoError(t, err)
	assert.True(t, closed)

	closed, err = repo.Close(ctx, rec)
	require.NoError(t, err)
	assert.False(t, closed)

	stored, err := repo.FindByUserAndDay(ctx, user.ID, "2024-03-12")
	require.NoError(t, err)
	require.NotNil(t, stored.CheckOutTime)
	assert.Equal(t, 8.0, stored.TotalHours)
}

func TestAttendanceRepository_Listings(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAttendanceRepository(db)
	ada := seedUser(t, users, "a@example.com", "E-1", models.RoleEmployee)
	bob := seedUser(t, users, "b@example.com", "E-2", models.RoleEmployee)

	for _, day := range []string{"2024-02-28", "2024-03-01", "2024-03-12"} {
		require.NoError(t, repo.Create(ctx, record(ada.ID, day, models.StatusPresent)))
	}
	require.NoError(t, repo.Create(ctx, record(bob.ID, "2024-03-01", models.StatusLate)))

	history, err := repo.ListByUser(ctx, ada.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-03-12", history[0].Day)
	assert.Equal(t, "2024-02-28", history[2].Day)

	march, err := repo.ListByUserInRange(ctx, ada.ID, "2024-03-01", "2024-03-31")
	require.NoError(t, err)
	assert.Len(t, march, 2)

	firstOfMarch, err := repo.ListByDayRange(ctx, "2024-03-01", "2024-03-01")
	require.NoError(t, err)
	assert.Len(t, firstOfMarch, 2)

	all, err := repo.ListWithUsers(ctx, models.RecordFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.NotNil(t, all[0].User)
	assert.Equal(t, "E-1", all[0].User.EmployeeID)

	filtered, err := repo.ListWithUsers(ctx, models.RecordFilter{StartDay: "2024-03-01", EndDay: "2024-03-01"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	// Half a range is ignored.
	halfRange, err := repo.ListWithUsers(ctx, models.RecordFilter{StartDay: "2024-03-01"})
	require.NoError(t, err)
	assert.Len(t, halfRange, 4)
}
