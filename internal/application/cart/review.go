package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
	"github.com/logfarma/armazem-api/pkg/logger"
)

// ReviewUseCase conferência central do carro embalado: máquina de estados
// independente da bipagem (donos diferentes), cooperando pelo ID do carro.
type ReviewUseCase struct {
	txRunner   TxRunner
	reviewRepo repository.ReviewRepository
	log        *logger.Logger
}

// NewReviewUseCase constrói o caso de uso.
func NewReviewUseCase(txRunner TxRunner, reviewRepo repository.ReviewRepository, log *logger.Logger) *ReviewUseCase {
	return &ReviewUseCase{txRunner: txRunner, reviewRepo: reviewRepo, log: log}
}

// GetByCart devolve a conferência do carro; ErrNotFound se não existir.
func (uc *ReviewUseCase) GetByCart(ctx context.Context, cartID string) (*entity.CartReview, error) {
	review, err := uc.reviewRepo.GetByCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, domain.ErrNotFound
	}
	return review, nil
}

// ToDivergenceReview move a conferência para análise de divergências.
func (uc *ReviewUseCase) ToDivergenceReview(ctx context.Context, cartID, reviewerID string) (*entity.CartReview, error) {
	review, err := uc.GetByCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := review.ToDivergenceReview(); err != nil {
		return nil, err
	}
	review.ReviewerID = reviewerID
	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ToAwaitingDispatch move a conferência para coleta de números de lançamento.
func (uc *ReviewUseCase) ToAwaitingDispatch(ctx context.Context, cartID string) (*entity.CartReview, error) {
	review, err := uc.GetByCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := review.ToAwaitingDispatch(); err != nil {
		return nil, err
	}
	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// AddDispatchNumber coleta um número de lançamento (6 dígitos, único no carro).
func (uc *ReviewUseCase) AddDispatchNumber(ctx context.Context, cartID, number string) (*entity.CartReview, error) {
	review, err := uc.GetByCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if err := review.AddDispatchNumber(number); err != nil {
		return nil, err
	}
	if err := uc.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Dispatch lança o carro: exige ao menos um número coletado, arquiva as
// notas admitidas sob cada número de lançamento e conclui o carro da
// bipagem, tudo em uma transação.
func (uc *ReviewUseCase) Dispatch(ctx context.Context, cartID string) (*entity.CartReview, error) {
	var result *entity.CartReview
	err := uc.txRunner.Run(ctx, func(
		cartRepo repository.CartRepository,
		reviewRepo repository.ReviewRepository,
		archiveRepo repository.ArchiveRepository,
	) error {
		review, err := reviewRepo.GetByCartID(ctx, cartID)
		if err != nil {
			return err
		}
		if review == nil {
			return domain.ErrNotFound
		}
		if err := review.Dispatch(); err != nil {
			return err
		}

		cart, err := cartRepo.GetForUpdate(ctx, cartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrNotFound
		}
		if err := cart.Complete(); err != nil {
			return err
		}

		now := time.Now()
		var archived []*entity.ArchivedEntry
		for _, number := range review.DispatchNumbers {
			for _, e := range cart.Entries {
				if !e.Admitted() {
					continue
				}
				archived = append(archived, &entity.ArchivedEntry{
					ID:               uuid.New().String(),
					DispatchNumber:   number,
					CartID:           cart.ID,
					InvoiceNumber:    e.InvoiceNumber,
					Code:             e.Code,
					Volume:           e.Volume,
					FinalDestination: e.FinalDestination,
					ArchivedAt:       now,
				})
			}
		}
		if len(archived) > 0 {
			if err := archiveRepo.CreateBatch(ctx, archived); err != nil {
				return err
			}
		}

		if err := reviewRepo.Update(ctx, review); err != nil {
			return err
		}
		if err := cartRepo.UpdateStatus(ctx, cart.ID, cart.Status); err != nil {
			return err
		}
		result = review
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("cart_id", cartID).Strs("dispatch_numbers", result.DispatchNumbers).Msg("carro lançado e arquivado")
	return result, nil
}
