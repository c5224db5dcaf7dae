package repository

import (
	"context"

	"github.com/logfarma/armazem-api/internal/domain/entity"
)

// CartRepository porta de persistência de carros e suas bipagens.
type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	// GetByID devolve o carro com as bipagens (mais recente primeiro); nil se não existir.
	GetByID(ctx context.Context, id string) (*entity.Cart, error)
	// GetForUpdate devolve o carro bloqueando a linha (serialização por carro).
	GetForUpdate(ctx context.Context, id string) (*entity.Cart, error)
	UpdateStatus(ctx context.Context, id string, status entity.CartStatus) error
	List(ctx context.Context, limit, offset int) ([]*entity.Cart, error)
	AppendEntry(ctx context.Context, entry *entity.InvoiceEntry) error
	RemoveEntry(ctx context.Context, cartID, entryID string) error
	MarkEntryRead(ctx context.Context, entryID string) error
}

// ReviewRepository porta de persistência das conferências centrais.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.CartReview) error
	GetByCartID(ctx context.Context, cartID string) (*entity.CartReview, error)
	Update(ctx context.Context, review *entity.CartReview) error
}

// ArchiveRepository porta do arquivo de longo prazo de notas lançadas.
type ArchiveRepository interface {
	CreateBatch(ctx context.Context, entries []*entity.ArchivedEntry) error
	ListByDispatchNumber(ctx context.Context, number string) ([]*entity.ArchivedEntry, error)
}
