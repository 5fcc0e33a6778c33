package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twendycreate/twendy-api/internal/database"
	"github.com/twendycreate/twendy-api/internal/models"
)

const userColumns = `id, nome, email, bi, role, google_id, password_hash, reset_code, reset_code_expires_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Nome, &user.Email, &user.BI, &user.Role,
		&user.GoogleID, &user.PasswordHash,
		&user.ResetCode, &user.ResetCodeExp,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByBI(ctx context.Context, bi string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE bi = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, bi))
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE google_id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, googleID))
}

// GetByResetCode resolves the unique holder of a pending reset code. The
// partial unique index on reset_code guarantees at most one row matches.
func (r *UserRepository) GetByResetCode(ctx context.Context, code string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios WHERE reset_code = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, code))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM usuarios ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = models.RoleCliente
	}

	query := `
		INSERT INTO usuarios (id, nome, email, bi, role, google_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Nome, user.Email, user.BI, user.Role,
		user.GoogleID, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	))
}

func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE usuarios SET nome = $1, role = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Nome, user.Role, user.UpdatedAt, id,
	))
}

// SetGoogleID backfills the external identity id after a verified Google
// sign-in matched the account by email.
func (r *UserRepository) SetGoogleID(ctx context.Context, id, googleID string) (*models.User, error) {
	query := `
		UPDATE usuarios SET google_id = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, googleID, time.Now(), id))
}

// SetResetCode stores a pending reset code and its expiry, overwriting any
// previous pending code. The partial unique index makes a concurrent
// duplicate code surface as a conflict for the caller to retry.
func (r *UserRepository) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	query := `
		UPDATE usuarios SET reset_code = $1, reset_code_expires_at = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.pool.Exec(ctx, query, code, expiresAt, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ConsumeResetCode sets the new password hash and clears the pending code
// and expiry in one statement, so the code cannot be spent twice. The expiry
// guard lives in the WHERE clause: an expired or already-consumed code
// matches no rows.
func (r *UserRepository) ConsumeResetCode(ctx context.Context, code, passwordHash string, now time.Time) (*models.User, error) {
	query := `
		UPDATE usuarios
		SET password_hash = $1, reset_code = NULL, reset_code_expires_at = NULL, updated_at = $2
		WHERE reset_code = $3 AND reset_code_expires_at > $4
		RETURNING ` + userColumns

	user, err := scanUserRow(r.pool.QueryRow(ctx, query, passwordHash, now, code, now))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidOrExpiredCode
		}
		return nil, err
	}

	return user, nil
}

// ClearExpiredResetCodes removes pending codes whose window has passed.
// Consumption already rejects them; this keeps the table tidy and frees the
// code value for reuse.
func (r *UserRepository) ClearExpiredResetCodes(ctx context.Context) (int64, error) {
	query := `
		UPDATE usuarios
		SET reset_code = NULL, reset_code_expires_at = NULL, updated_at = now()
		WHERE reset_code IS NOT NULL AND reset_code_expires_at <= now()
	`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM usuarios WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
