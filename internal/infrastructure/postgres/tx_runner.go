package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	appcart "github.com/logfarma/armazem-api/internal/application/cart"
	appstorage "github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

// Garante que TxRunner implementa os runners dos casos de uso.
var _ appcart.TxRunner = (*TxRunner)(nil)
var _ appstorage.TxRunner = (*StorageTxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL com
// repositórios de carro, conferência e arquivo atados à tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repos atados à tx e faz Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	cartRepo repository.CartRepository,
	reviewRepo repository.ReviewRepository,
	archiveRepo repository.ArchiveRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cartRepo := NewCartRepository(tx)
	reviewRepo := NewReviewRepository(tx)
	archiveRepo := NewArchiveRepository(tx)

	if err := fn(cartRepo, reviewRepo, archiveRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// StorageTxRunner executa callbacks em transação com repositórios de posição
// e palete atados à tx (ocupação/liberação/transferência atômicas).
type StorageTxRunner struct {
	pool *pgxpool.Pool
}

// NewStorageTxRunner constrói o runner com o pool.
func NewStorageTxRunner(pool *pgxpool.Pool) *StorageTxRunner {
	return &StorageTxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repos atados à tx e faz Commit ou Rollback.
func (r *StorageTxRunner) Run(ctx context.Context, fn func(
	positionRepo repository.PositionRepository,
	palletRepo repository.PalletRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewPositionRepository(tx), NewPalletRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
