package repository

import (
	"context"

	"github.com/logfarma/armazem-api/internal/domain/entity"
)

// PositionRepository porta de persistência das posições de armazenagem.
// Occupy/Release/Block/Unblock são atualizações condicionais chaveadas no
// status anterior: quem perde a corrida recebe ErrConcurrencyConflict ou
// ErrPositionUnavailable, nunca um commit parcial.
type PositionRepository interface {
	Create(ctx context.Context, position *entity.Position) error
	GetByID(ctx context.Context, id string) (*entity.Position, error)
	GetByCode(ctx context.Context, code string) (*entity.Position, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Position, error)
	// ListAvailable devolve posições livres, opcionalmente filtradas por nível (level < 0 = todos).
	ListAvailable(ctx context.Context, level int) ([]*entity.Position, error)
	ListByPallet(ctx context.Context, palletID string) ([]*entity.Position, error)
	// Occupy exige status livre; seta ocupada + referência ao palete.
	Occupy(ctx context.Context, positionID, palletID string) error
	// Release exige status ocupada; limpa os dois lados.
	Release(ctx context.Context, positionID string) error
	// Block exige status livre.
	Block(ctx context.Context, positionID, reason string) error
	// Unblock exige status bloqueada.
	Unblock(ctx context.Context, positionID string) error
}

// PalletRepository porta de persistência dos paletes. O conjunto de posições
// de um palete é derivado das posições que o referenciam (um único lado da
// verdade; a consistência bidirecional sai de graça).
type PalletRepository interface {
	Create(ctx context.Context, pallet *entity.Pallet) error
	GetByID(ctx context.Context, id string) (*entity.Pallet, error)
	GetByCode(ctx context.Context, code string) (*entity.Pallet, error)
	ListByLoad(ctx context.Context, loadID string) ([]*entity.Pallet, error)
	UpdateStatus(ctx context.Context, id string, status entity.PalletStatus) error
}

// LoadRepository porta de persistência das cargas.
type LoadRepository interface {
	Create(ctx context.Context, load *entity.Load) error
	GetByID(ctx context.Context, id string) (*entity.Load, error)
}

// UserRepository porta de persistência de usuários.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
}
