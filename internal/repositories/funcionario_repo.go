package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twendycreate/twendy-api/internal/database"
	"github.com/twendycreate/twendy-api/internal/models"
)

type FuncionarioRepository struct {
	pool *pgxpool.Pool
}

func NewFuncionarioRepository(db *database.DB) *FuncionarioRepository {
	return &FuncionarioRepository{pool: db.Pool}
}

func scanFuncionarioRow(scanner rowScanner) (*models.Funcionario, error) {
	var f models.Funcionario

	err := scanner.Scan(&f.ID, &f.UsuarioID, &f.Cargo, &f.DataAdmissao, &f.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &f, nil
}

// GetByUserID returns the employment record for a user, or ErrNotFound.
func (r *FuncionarioRepository) GetByUserID(ctx context.Context, userID string) (*models.Funcionario, error) {
	query := `
		SELECT id, usuario_id, cargo, data_admissao, created_at
		FROM funcionarios WHERE usuario_id = $1
	`
	return scanFuncionarioRow(r.pool.QueryRow(ctx, query, userID))
}

func (r *FuncionarioRepository) Create(ctx context.Context, funcionario *models.Funcionario) (*models.Funcionario, error) {
	funcionario.ID = uuid.New().String()
	funcionario.CreatedAt = time.Now()

	query := `
		INSERT INTO funcionarios (id, usuario_id, cargo, data_admissao, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, usuario_id, cargo, data_admissao, created_at
	`

	return scanFuncionarioRow(r.pool.QueryRow(ctx, query,
		funcionario.ID, funcionario.UsuarioID, funcionario.Cargo,
		funcionario.DataAdmissao, funcionario.CreatedAt,
	))
}
