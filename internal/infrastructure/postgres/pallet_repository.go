package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ repository.PalletRepository = (*PalletRepo)(nil)

// PalletRepo implementação de PalletRepository sobre PostgreSQL.
// A tabela não guarda as posições do palete: elas saem de positions.pallet_id.
type PalletRepo struct {
	q Querier
}

// NewPalletRepository constrói o adaptador.
func NewPalletRepository(q Querier) *PalletRepo {
	return &PalletRepo{q: q}
}

const palletColumns = `id, code, load_id, status, invoice_count, volume_count, gross_weight, created_at, updated_at`

// Create persiste um palete novo.
func (r *PalletRepo) Create(ctx context.Context, p *entity.Pallet) error {
	query := `
		INSERT INTO pallets (id, code, load_id, status, invoice_count, volume_count, gross_weight, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.LoadID, string(p.Status), p.InvoiceCount, p.VolumeCount, p.GrossWeight, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert pallet: código %s já cadastrado", p.Code)
		}
		return fmt.Errorf("insert pallet: %w", err)
	}
	return nil
}

// GetByID devolve o palete; nil se não existir. PositionIDs não vem
// preenchido aqui; o caso de uso deriva via PositionRepository.ListByPallet.
func (r *PalletRepo) GetByID(ctx context.Context, id string) (*entity.Pallet, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByCode devolve o palete pelo código; nil se não existir.
func (r *PalletRepo) GetByCode(ctx context.Context, code string) (*entity.Pallet, error) {
	return r.getWhere(ctx, "code = $1", code)
}

func (r *PalletRepo) getWhere(ctx context.Context, where string, arg any) (*entity.Pallet, error) {
	query := `SELECT ` + palletColumns + ` FROM pallets WHERE ` + where
	var p entity.Pallet
	var status string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Code, &p.LoadID, &status, &p.InvoiceCount, &p.VolumeCount, &p.GrossWeight, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pallet: %w", err)
	}
	p.Status = entity.PalletStatus(status)
	return &p, nil
}

// ListByLoad devolve os paletes de uma carga, ordenados por código.
func (r *PalletRepo) ListByLoad(ctx context.Context, loadID string) ([]*entity.Pallet, error) {
	query := `SELECT ` + palletColumns + ` FROM pallets WHERE load_id = $1 ORDER BY code`
	rows, err := r.q.Query(ctx, query, loadID)
	if err != nil {
		return nil, fmt.Errorf("list pallets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pallet
	for rows.Next() {
		var p entity.Pallet
		var status string
		if err := rows.Scan(&p.ID, &p.Code, &p.LoadID, &status,
			&p.InvoiceCount, &p.VolumeCount, &p.GrossWeight, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pallet: %w", err)
		}
		p.Status = entity.PalletStatus(status)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UpdateStatus troca o status do palete.
func (r *PalletRepo) UpdateStatus(ctx context.Context, id string, status entity.PalletStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE pallets SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("update pallet status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
