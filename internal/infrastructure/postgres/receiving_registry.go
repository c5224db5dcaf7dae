package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/domain/entity"
)

var _ admission.ReceivingRegistry = (*ReceivingRegistry)(nil)

// ReceivingRegistry consulta de notas processadas pelo recebimento,
// sobre a tabela receiving_records alimentada pela conferência de entrada.
type ReceivingRegistry struct {
	q Querier
}

// NewReceivingRegistry constrói o adaptador.
func NewReceivingRegistry(q Querier) *ReceivingRegistry {
	return &ReceivingRegistry{q: q}
}

// Exists informa se a nota passou pelo recebimento.
func (r *ReceivingRegistry) Exists(ctx context.Context, invoiceNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM receiving_records WHERE invoice_number = $1)`,
		invoiceNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check receiving record: %w", err)
	}
	return exists, nil
}

// Get devolve o registro de recebimento; nil se a nota não foi recebida.
func (r *ReceivingRegistry) Get(ctx context.Context, invoiceNumber string) (*entity.ReceivingRecord, error) {
	query := `
		SELECT invoice_number, supplier, volume_count, gross_weight, received_at
		FROM receiving_records WHERE invoice_number = $1`
	var rec entity.ReceivingRecord
	err := r.q.QueryRow(ctx, query, invoiceNumber).Scan(
		&rec.InvoiceNumber, &rec.Supplier, &rec.VolumeCount, &rec.GrossWeight, &rec.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receiving record: %w", err)
	}
	return &rec, nil
}
