package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twendycreate/twendy-api/internal/database"
	"github.com/twendycreate/twendy-api/internal/models"
)

const servicoColumns = `id, titulo, descricao, remetente_id, destinatario_id, estado, preco, created_at, updated_at`

type ServicoRepository struct {
	pool *pgxpool.Pool
}

func NewServicoRepository(db *database.DB) *ServicoRepository {
	return &ServicoRepository{pool: db.Pool}
}

func scanServicoRow(scanner rowScanner) (*models.Servico, error) {
	var s models.Servico

	err := scanner.Scan(
		&s.ID, &s.Titulo, &s.Descricao,
		&s.RemetenteID, &s.DestinatarioID,
		&s.Estado, &s.Preco,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &s, nil
}

func scanServicoRows(rows pgx.Rows) ([]*models.Servico, error) {
	defer rows.Close()

	servicos := make([]*models.Servico, 0)

	for rows.Next() {
		s, err := scanServicoRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan servico: %w", err)
		}
		servicos = append(servicos, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return servicos, nil
}

func (r *ServicoRepository) GetByID(ctx context.Context, id string) (*models.Servico, error) {
	query := `SELECT ` + servicoColumns + ` FROM servicos WHERE id = $1`
	return scanServicoRow(r.pool.QueryRow(ctx, query, id))
}

func (r *ServicoRepository) List(ctx context.Context, limit, offset int) ([]*models.Servico, error) {
	query := `SELECT ` + servicoColumns + ` FROM servicos ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query servicos: %w", err)
	}

	return scanServicoRows(rows)
}

// ListSentByUser returns the most recent servicos the user sent, newest first.
func (r *ServicoRepository) ListSentByUser(ctx context.Context, userID string, limit int) ([]*models.Servico, error) {
	query := `
		SELECT ` + servicoColumns + ` FROM servicos
		WHERE remetente_id = $1 ORDER BY created_at DESC LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sent servicos: %w", err)
	}

	return scanServicoRows(rows)
}

// ListReceivedByUser returns the most recent servicos addressed to the user,
// newest first.
func (r *ServicoRepository) ListReceivedByUser(ctx context.Context, userID string, limit int) ([]*models.Servico, error) {
	query := `
		SELECT ` + servicoColumns + ` FROM servicos
		WHERE destinatario_id = $1 ORDER BY created_at DESC LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query received servicos: %w", err)
	}

	return scanServicoRows(rows)
}

func (r *ServicoRepository) Create(ctx context.Context, servico *models.Servico) (*models.Servico, error) {
	servico.ID = uuid.New().String()

	now := time.Now()
	servico.CreatedAt = now
	servico.UpdatedAt = now

	if servico.Estado == "" {
		servico.Estado = models.ServicoPendente
	}

	query := `
		INSERT INTO servicos (id, titulo, descricao, remetente_id, destinatario_id, estado, preco, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + servicoColumns

	return scanServicoRow(r.pool.QueryRow(ctx, query,
		servico.ID, servico.Titulo, servico.Descricao,
		servico.RemetenteID, servico.DestinatarioID,
		servico.Estado, servico.Preco,
		servico.CreatedAt, servico.UpdatedAt,
	))
}

func (r *ServicoRepository) Update(ctx context.Context, id string, servico *models.Servico) (*models.Servico, error) {
	servico.UpdatedAt = time.Now()

	query := `
		UPDATE servicos SET titulo = $1, descricao = $2, estado = $3, preco = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + servicoColumns

	return scanServicoRow(r.pool.QueryRow(ctx, query,
		servico.Titulo, servico.Descricao, servico.Estado, servico.Preco, servico.UpdatedAt, id,
	))
}

func (r *ServicoRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM servicos WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
