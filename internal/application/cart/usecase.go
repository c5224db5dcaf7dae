package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
	"github.com/logfarma/armazem-api/pkg/logger"
)

// Fluxos de origem de um carro: embalagem (bipagem de notas) ou
// endereçamento WMS. O fluxo define o prefixo do identificador.
const (
	FlowPacking = "embalagem"
	FlowWMS     = "wms"
)

// LifecycleUseCase gerencia o ciclo de vida do carro no lado da bipagem:
// criação, finalização, travamento para embalagem (com carro sucessor
// explícito) e remoção de bipagens enquanto destravado.
type LifecycleUseCase struct {
	txRunner TxRunner
	cartRepo repository.CartRepository
	ledger   admission.AdmissionLedger
	log      *logger.Logger
}

// NewLifecycleUseCase constrói o caso de uso.
func NewLifecycleUseCase(txRunner TxRunner, cartRepo repository.CartRepository, ledger admission.AdmissionLedger, log *logger.Logger) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, cartRepo: cartRepo, ledger: ledger, log: log}
}

// CreateCart cria um carro em bipagem. O identificador carrega o prefixo do
// fluxo para que embalagem e WMS nunca colidam no ledger compartilhado.
func (uc *LifecycleUseCase) CreateCart(ctx context.Context, name, flow, operatorID string) (*entity.Cart, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	prefix := entity.CartPrefixPacking
	if flow == FlowWMS {
		prefix = entity.CartPrefixWMS
	}
	now := time.Now()
	cart := &entity.Cart{
		ID:        entity.NewCartID(prefix, uuid.New().String()),
		Name:      name,
		Status:    entity.CartStatusScanning,
		CreatedBy: operatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	uc.log.Info().Str("cart_id", cart.ID).Str("flow", flow).Msg("carro criado")
	return cart, nil
}

// GetCart devolve o carro com suas bipagens; ErrNotFound se não existir.
func (uc *LifecycleUseCase) GetCart(ctx context.Context, id string) (*entity.Cart, error) {
	cart, err := uc.cartRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}
	return cart, nil
}

// ListCarts lista carros com paginação.
func (uc *LifecycleUseCase) ListCarts(ctx context.Context, limit, offset int) ([]*entity.Cart, error) {
	return uc.cartRepo.List(ctx, limit, offset)
}

// Finalize confirma a bipagem do carro. Falha com InvalidTransitionError
// (com a contagem de pendências) sem mudar nada se houver notas pendentes
// ou nenhuma válida.
func (uc *LifecycleUseCase) Finalize(ctx context.Context, cartID string) (*entity.Cart, error) {
	cart, err := uc.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := cart.Finalize(); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.UpdateStatus(ctx, cart.ID, cart.Status); err != nil {
		return nil, err
	}
	uc.log.Info().Str("cart_id", cart.ID).Msg("carro finalizado")
	return cart, nil
}

// StartPacking trava o carro para embalagem física e devolve o par
// (carro travado, carro sucessor): a criação do sucessor é um efeito
// explícito da transição, observável pelo chamador, não uma ação ambiente.
// Abre também a conferência central (estágio embalando) na mesma transação.
func (uc *LifecycleUseCase) StartPacking(ctx context.Context, cartID, operatorID string) (locked *entity.Cart, successor *entity.Cart, err error) {
	err = uc.txRunner.Run(ctx, func(
		cartRepo repository.CartRepository,
		reviewRepo repository.ReviewRepository,
		_ repository.ArchiveRepository,
	) error {
		cart, err := cartRepo.GetForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrNotFound
		}
		if err := cart.StartPacking(); err != nil {
			return err
		}
		if err := cartRepo.UpdateStatus(ctx, cart.ID, cart.Status); err != nil {
			return err
		}

		prefix := entity.CartPrefixPacking
		if len(cart.ID) >= len(entity.CartPrefixWMS) && cart.ID[:len(entity.CartPrefixWMS)] == entity.CartPrefixWMS {
			prefix = entity.CartPrefixWMS
		}
		now := time.Now()
		next := &entity.Cart{
			ID:        entity.NewCartID(prefix, uuid.New().String()),
			Name:      cart.Name,
			Status:    entity.CartStatusScanning,
			CreatedBy: operatorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := cartRepo.Create(ctx, next); err != nil {
			return err
		}

		review := &entity.CartReview{
			ID:        uuid.New().String(),
			CartID:    cart.ID,
			Stage:     entity.ReviewStagePacking,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			return err
		}

		locked, successor = cart, next
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().Str("cart_id", locked.ID).Str("successor_id", successor.ID).Msg("carro travado para embalagem")
	return locked, successor, nil
}

// RemoveEntry remove uma bipagem de um carro ainda em bipagem. Se a nota
// estava admitida, libera o registro no ledger para que possa ser bipada
// em outro carro.
func (uc *LifecycleUseCase) RemoveEntry(ctx context.Context, cartID, entryID string) error {
	cart, err := uc.GetCart(ctx, cartID)
	if err != nil {
		return err
	}
	removed, err := cart.RemoveEntry(entryID)
	if err != nil {
		return err
	}
	if err := uc.cartRepo.RemoveEntry(ctx, cartID, entryID); err != nil {
		return err
	}
	if removed.Admitted() {
		if err := uc.ledger.Remove(ctx, removed.InvoiceNumber); err != nil {
			return err
		}
	}
	return nil
}

// MarkEntryRead marca a bipagem como lida (única mutação pós-criação de uma entrada).
func (uc *LifecycleUseCase) MarkEntryRead(ctx context.Context, entryID string) error {
	return uc.cartRepo.MarkEntryRead(ctx, entryID)
}
