package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ repository.CartRepository = (*CartRepo)(nil)

// CartRepo implementação de CartRepository sobre PostgreSQL (usável com pool ou tx).
type CartRepo struct {
	q Querier
}

// NewCartRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewCartRepository(q Querier) *CartRepo {
	return &CartRepo{q: q}
}

// Create persiste um carro novo.
func (r *CartRepo) Create(ctx context.Context, cart *entity.Cart) error {
	query := `
		INSERT INTO carts (id, name, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		cart.ID, cart.Name, string(cart.Status), cart.CreatedBy, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cart: %w", err)
	}
	return nil
}

// GetByID devolve o carro com as bipagens (mais recente primeiro); nil se não existir.
func (r *CartRepo) GetByID(ctx context.Context, id string) (*entity.Cart, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate devolve o carro bloqueando a linha (SELECT FOR UPDATE).
func (r *CartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Cart, error) {
	return r.get(ctx, id, true)
}

func (r *CartRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Cart, error) {
	query := `
		SELECT id, name, status, created_by, created_at, updated_at
		FROM carts WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var c entity.Cart
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	c.Status = entity.CartStatus(status)

	entries, err := r.listEntries(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Entries = entries
	return &c, nil
}

func (r *CartRepo) listEntries(ctx context.Context, cartID string) ([]*entity.InvoiceEntry, error) {
	query := `
		SELECT id, cart_id, invoice_number, code, volume, destination_code,
		       supplier_name, final_destination, cargo_type, status,
		       error_detail, read, scanned_at, scanned_by
		FROM invoice_entries WHERE cart_id = $1 ORDER BY scanned_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceEntry
	for rows.Next() {
		var e entity.InvoiceEntry
		var status string
		if err := rows.Scan(
			&e.ID, &e.CartID, &e.InvoiceNumber, &e.Code, &e.Volume, &e.DestinationCode,
			&e.SupplierName, &e.FinalDestination, &e.CargoType, &status,
			&e.ErrorDetail, &e.Read, &e.ScannedAt, &e.ScannedBy,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Status = entity.EntryStatus(status)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// UpdateStatus atualiza o status do carro.
func (r *CartRepo) UpdateStatus(ctx context.Context, id string, status entity.CartStatus) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE carts SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("update cart status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update cart status: carro %s não encontrado", id)
	}
	return nil
}

// List lista carros com paginação (sem as bipagens; listagem leve).
func (r *CartRepo) List(ctx context.Context, limit, offset int) ([]*entity.Cart, error) {
	query := `
		SELECT id, name, status, created_by, created_at, updated_at
		FROM carts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cart
	for rows.Next() {
		var c entity.Cart
		var status string
		if err := rows.Scan(&c.ID, &c.Name, &status, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart: %w", err)
		}
		c.Status = entity.CartStatus(status)
		list = append(list, &c)
	}
	return list, rows.Err()
}

// AppendEntry persiste uma bipagem do carro (admitida ou rejeitada).
func (r *CartRepo) AppendEntry(ctx context.Context, entry *entity.InvoiceEntry) error {
	query := `
		INSERT INTO invoice_entries (id, cart_id, invoice_number, code, volume,
			destination_code, supplier_name, final_destination, cargo_type,
			status, error_detail, read, scanned_at, scanned_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		entry.ID, entry.CartID, entry.InvoiceNumber, entry.Code, entry.Volume,
		entry.DestinationCode, entry.SupplierName, entry.FinalDestination, entry.CargoType,
		string(entry.Status), entry.ErrorDetail, entry.Read, entry.ScannedAt, entry.ScannedBy,
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// RemoveEntry remove uma bipagem do carro.
func (r *CartRepo) RemoveEntry(ctx context.Context, cartID, entryID string) error {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM invoice_entries WHERE id = $1 AND cart_id = $2`,
		entryID, cartID,
	)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete entry: bipagem %s não encontrada no carro %s", entryID, cartID)
	}
	return nil
}

// MarkEntryRead marca a bipagem como lida.
func (r *CartRepo) MarkEntryRead(ctx context.Context, entryID string) error {
	_, err := r.q.Exec(ctx, `UPDATE invoice_entries SET read = true WHERE id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("mark entry read: %w", err)
	}
	return nil
}
