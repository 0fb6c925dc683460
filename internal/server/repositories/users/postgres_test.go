package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/validoio/valido/internal/common"
	"github.com/validoio/valido/internal/server/models"
)

var userCols = []string{
	"id", "first_name", "last_name", "email", "password", "phone_number",
	"is_active", "is_verified", "creator", "modifier", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleUser() *models.User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &models.User{
		ID:          "7b6d79b4-0000-0000-0000-000000000001",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@x.com",
		Password:    "$2a$10$hash",
		PhoneNumber: "+100",
		Creator:     "7b6d79b4-0000-0000-0000-000000000001",
		Modifier:    "7b6d79b4-0000-0000-0000-000000000001",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func userRow(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(
		u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.PhoneNumber,
		u.IsActive, u.IsVerified, u.Creator, u.Modifier, u.CreatedAt, u.UpdatedAt,
	)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs(u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.PhoneNumber,
			u.IsActive, u.IsVerified, u.Creator, u.Modifier, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Email != "ada@x.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	_, err := repo.Create(context.Background(), sampleUser())
	if err == nil || !regexp.MustCompile(`db error: .*unique constraint`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("ada@x.com").
		WillReturnRows(userRow(u))

	got, err := repo.GetByEmail(context.Background(), "ada@x.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != u.ID || got.FirstName != "Ada" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("nobody@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsAllRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	rows := userRow(u).AddRow(
		"7b6d79b4-0000-0000-0000-000000000002", "Grace", "Hopper", "grace@x.com",
		"$2a$10$hash2", "", true, true,
		"7b6d79b4-0000-0000-0000-000000000002", "7b6d79b4-0000-0000-0000-000000000002",
		u.CreatedAt, u.UpdatedAt,
	)
	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+ORDER\s+BY\s+created_at`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[1].Email != "grace@x.com" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestMarkVerifiedAndActive_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	when := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+is_verified\s*=\s*TRUE,\s*is_active\s*=\s*TRUE`).
		WithArgs("u-1", when).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkVerifiedAndActive(context.Background(), "u-1", when); err != nil {
		t.Fatalf("MarkVerifiedAndActive error: %v", err)
	}
}

func TestMarkVerifiedAndActive_NoRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	when := time.Now()
	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+is_verified\s*=\s*TRUE`).
		WithArgs("ghost", when).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkVerifiedAndActive(context.Background(), "ghost", when)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}
