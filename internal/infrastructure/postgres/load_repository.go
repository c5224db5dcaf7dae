package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ repository.LoadRepository = (*LoadRepo)(nil)

// LoadRepo implementação de LoadRepository sobre PostgreSQL.
type LoadRepo struct {
	q Querier
}

// NewLoadRepository constrói o adaptador.
func NewLoadRepository(q Querier) *LoadRepo {
	return &LoadRepo{q: q}
}

// Create persiste uma carga nova.
func (r *LoadRepo) Create(ctx context.Context, l *entity.Load) error {
	query := `INSERT INTO loads (id, destination, client_name, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, l.ID, l.Destination, l.ClientName, l.CreatedAt); err != nil {
		return fmt.Errorf("insert load: %w", err)
	}
	return nil
}

// GetByID devolve a carga; nil se não existir.
func (r *LoadRepo) GetByID(ctx context.Context, id string) (*entity.Load, error) {
	query := `SELECT id, destination, client_name, created_at FROM loads WHERE id = $1`
	var l entity.Load
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.Destination, &l.ClientName, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get load: %w", err)
	}
	return &l, nil
}
