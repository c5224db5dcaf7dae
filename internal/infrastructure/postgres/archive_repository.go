package postgres

import (
	"context"
	"fmt"

	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo arquivo de longo prazo das notas lançadas (usável com pool ou tx).
type ArchiveRepo struct {
	q Querier
}

// NewArchiveRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewArchiveRepository(q Querier) *ArchiveRepo {
	return &ArchiveRepo{q: q}
}

// CreateBatch persiste o lote de notas arquivadas de um lançamento.
func (r *ArchiveRepo) CreateBatch(ctx context.Context, entries []*entity.ArchivedEntry) error {
	query := `
		INSERT INTO archived_entries (id, dispatch_number, cart_id, invoice_number,
			code, volume, final_destination, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, e := range entries {
		_, err := r.q.Exec(ctx, query,
			e.ID, e.DispatchNumber, e.CartID, e.InvoiceNumber,
			e.Code, e.Volume, e.FinalDestination, e.ArchivedAt,
		)
		if err != nil {
			return fmt.Errorf("insert archived entry: %w", err)
		}
	}
	return nil
}

// ListByDispatchNumber devolve as notas arquivadas sob um número de lançamento.
func (r *ArchiveRepo) ListByDispatchNumber(ctx context.Context, number string) ([]*entity.ArchivedEntry, error) {
	query := `
		SELECT id, dispatch_number, cart_id, invoice_number, code, volume, final_destination, archived_at
		FROM archived_entries WHERE dispatch_number = $1 ORDER BY archived_at DESC`
	rows, err := r.q.Query(ctx, query, number)
	if err != nil {
		return nil, fmt.Errorf("list archived entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.ArchivedEntry
	for rows.Next() {
		var e entity.ArchivedEntry
		if err := rows.Scan(&e.ID, &e.DispatchNumber, &e.CartID, &e.InvoiceNumber,
			&e.Code, &e.Volume, &e.FinalDestination, &e.ArchivedAt); err != nil {
			return nil, fmt.Errorf("scan archived entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
