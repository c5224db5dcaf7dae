package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
	"github.com/logfarma/armazem-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// LedgerUseCase operações sobre o ledger de posições e paletes: ocupação,
// liberação, transferência e bloqueio, sempre como atualizações condicionais
// chaveadas no status anterior (quem perde a corrida recebe
// ErrConcurrencyConflict, nunca um commit parcial).
type LedgerUseCase struct {
	txRunner     TxRunner
	positionRepo repository.PositionRepository
	palletRepo   repository.PalletRepository
	loadRepo     repository.LoadRepository
	log          *logger.Logger
}

// NewLedgerUseCase constrói o caso de uso.
func NewLedgerUseCase(txRunner TxRunner, positionRepo repository.PositionRepository, palletRepo repository.PalletRepository, loadRepo repository.LoadRepository, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, positionRepo: positionRepo, palletRepo: palletRepo, loadRepo: loadRepo, log: log}
}

// CreatePositionInput entrada para cadastrar uma posição.
type CreatePositionInput struct {
	Code                 string
	Level                int
	PreferredDestination string
}

// CreatePosition cadastra uma posição livre.
func (uc *LedgerUseCase) CreatePosition(ctx context.Context, in CreatePositionInput) (*entity.Position, error) {
	if in.Code == "" || in.Level < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	p := &entity.Position{
		ID:                   uuid.New().String(),
		Code:                 in.Code,
		Level:                in.Level,
		PreferredDestination: in.PreferredDestination,
		Status:               entity.PositionStatusAvailable,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.positionRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPositions lista posições com paginação.
func (uc *LedgerUseCase) ListPositions(ctx context.Context, limit, offset int) ([]*entity.Position, error) {
	return uc.positionRepo.List(ctx, limit, offset)
}

// BlockPosition bloqueia uma posição livre; bloqueada sai das sugestões.
func (uc *LedgerUseCase) BlockPosition(ctx context.Context, positionID, reason string) error {
	return uc.positionRepo.Block(ctx, positionID, reason)
}

// UnblockPosition devolve uma posição bloqueada a livre.
func (uc *LedgerUseCase) UnblockPosition(ctx context.Context, positionID string) error {
	return uc.positionRepo.Unblock(ctx, positionID)
}

// CreateLoad cadastra uma carga (agrupamento de paletes por destino/cliente).
func (uc *LedgerUseCase) CreateLoad(ctx context.Context, destination, clientName string) (*entity.Load, error) {
	if destination == "" {
		return nil, domain.ErrInvalidInput
	}
	l := &entity.Load{
		ID:          uuid.New().String(),
		Destination: destination,
		ClientName:  clientName,
		CreatedAt:   time.Now(),
	}
	if err := uc.loadRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// CreatePalletInput entrada para cadastrar um palete de uma carga.
type CreatePalletInput struct {
	Code         string
	LoadID       string
	InvoiceCount int
	VolumeCount  int
	GrossWeight  decimal.Decimal
}

// CreatePallet cadastra um palete aguardando armazenagem. O código deve
// seguir PAL-nnnnn, com sufixo _i-n para paletes divididos.
func (uc *LedgerUseCase) CreatePallet(ctx context.Context, in CreatePalletInput) (*entity.Pallet, error) {
	if !entity.ValidPalletCode(in.Code) || in.LoadID == "" {
		return nil, domain.ErrInvalidInput
	}
	load, err := uc.loadRepo.GetByID(ctx, in.LoadID)
	if err != nil {
		return nil, err
	}
	if load == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	p := &entity.Pallet{
		ID:           uuid.New().String(),
		Code:         in.Code,
		LoadID:       in.LoadID,
		Status:       entity.PalletStatusAwaiting,
		InvoiceCount: in.InvoiceCount,
		VolumeCount:  in.VolumeCount,
		GrossWeight:  in.GrossWeight,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.palletRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPallet devolve o palete com o conjunto de posições que o referenciam.
func (uc *LedgerUseCase) GetPallet(ctx context.Context, id string) (*entity.Pallet, error) {
	pallet, err := uc.palletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pallet == nil {
		return nil, domain.ErrNotFound
	}
	positions, err := uc.positionRepo.ListByPallet(ctx, pallet.ID)
	if err != nil {
		return nil, err
	}
	pallet.PositionIDs = pallet.PositionIDs[:0]
	for _, p := range positions {
		pallet.PositionIDs = append(pallet.PositionIDs, p.ID)
	}
	return pallet, nil
}

// LoadTotals recomputa os agregados de uma carga a partir dos paletes.
func (uc *LedgerUseCase) LoadTotals(ctx context.Context, loadID string) (*entity.LoadTotals, error) {
	load, err := uc.loadRepo.GetByID(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if load == nil {
		return nil, domain.ErrNotFound
	}
	pallets, err := uc.palletRepo.ListByLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	totals := load.Totals(pallets)
	return &totals, nil
}

// OccupyAll ocupa todas as posições do conjunto para o palete e o marca como
// armazenado, em uma única transação. Palete dividido trata o conjunto como
// unidade: ou todas as posições são ocupadas, ou nenhuma.
func (uc *LedgerUseCase) OccupyAll(ctx context.Context, palletID string, positionIDs []string) error {
	if len(positionIDs) == 0 {
		return domain.ErrInvalidInput
	}
	err := uc.txRunner.Run(ctx, func(
		positionRepo repository.PositionRepository,
		palletRepo repository.PalletRepository,
	) error {
		for _, posID := range positionIDs {
			if err := positionRepo.Occupy(ctx, posID, palletID); err != nil {
				return err
			}
		}
		return palletRepo.UpdateStatus(ctx, palletID, entity.PalletStatusStored)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("pallet_id", palletID).Int("positions", len(positionIDs)).Msg("palete armazenado")
	return nil
}

// Transfer move o palete de uma posição para outra: libera a origem e ocupa
// o destino no mesmo commit. Se a ocupação falhar, a liberação é desfeita
// junto; o palete nunca fica sem posição.
func (uc *LedgerUseCase) Transfer(ctx context.Context, palletID, fromPositionID, toPositionID string) error {
	return uc.txRunner.Run(ctx, func(
		positionRepo repository.PositionRepository,
		palletRepo repository.PalletRepository,
	) error {
		from, err := positionRepo.GetByID(ctx, fromPositionID)
		if err != nil {
			return err
		}
		if from == nil || from.PalletID != palletID {
			return domain.ErrPositionUnavailable
		}
		if err := positionRepo.Release(ctx, fromPositionID); err != nil {
			return err
		}
		return positionRepo.Occupy(ctx, toPositionID, palletID)
	})
}

// ReleaseAll libera todas as posições do palete e o marca como expedido,
// em uma única transação. Palete expedido não referencia posição alguma.
func (uc *LedgerUseCase) ReleaseAll(ctx context.Context, palletID string) error {
	err := uc.txRunner.Run(ctx, func(
		positionRepo repository.PositionRepository,
		palletRepo repository.PalletRepository,
	) error {
		positions, err := positionRepo.ListByPallet(ctx, palletID)
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			return domain.ErrPalletNotStored
		}
		for _, p := range positions {
			if err := positionRepo.Release(ctx, p.ID); err != nil {
				return err
			}
		}
		return palletRepo.UpdateStatus(ctx, palletID, entity.PalletStatusShipped)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("pallet_id", palletID).Msg("palete expedido")
	return nil
}
