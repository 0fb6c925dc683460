// Package users implements user persistence over PostgreSQL.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/validoio/valido/internal/common"
	"github.com/validoio/valido/internal/dbx"
	"github.com/validoio/valido/internal/server/models"
)

const userColumns = `id, first_name, last_name, email, password, phone_number,
		 is_active, is_verified, creator, modifier, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository binds a repository to a *sql.DB or *sql.Tx, so the
// same code runs standalone or inside a surrounding transaction.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (` + userColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.Password,
		user.PhoneNumber, user.IsActive, user.IsVerified,
		user.Creator, user.Modifier, user.CreatedAt, user.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT ` + userColumns + ` FROM users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password,
			&user.PhoneNumber, &user.IsActive, &user.IsVerified,
			&user.Creator, &user.Modifier, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// MarkVerifiedAndActive flips both account flags in one statement, so a
// confirmed OTP activates the account atomically.
func (r *PostgresRepository) MarkVerifiedAndActive(ctx context.Context, id string, when time.Time) error {
	query :=
		`UPDATE users SET is_verified = TRUE, is_active = TRUE, updated_at = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, when)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password,
		&user.PhoneNumber, &user.IsActive, &user.IsVerified,
		&user.Creator, &user.Modifier, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
