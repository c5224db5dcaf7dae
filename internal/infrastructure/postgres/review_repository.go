package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

// ReviewRepo implementação de ReviewRepository sobre PostgreSQL (usável com pool ou tx).
type ReviewRepo struct {
	q Querier
}

// NewReviewRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewReviewRepository(q Querier) *ReviewRepo {
	return &ReviewRepo{q: q}
}

// Create persiste a conferência de um carro embalado.
func (r *ReviewRepo) Create(ctx context.Context, review *entity.CartReview) error {
	query := `
		INSERT INTO cart_reviews (id, cart_id, stage, dispatch_numbers, reviewer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		review.ID, review.CartID, string(review.Stage), review.DispatchNumbers,
		review.ReviewerID, review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert review: carro %s já tem conferência", review.CartID)
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// GetByCartID devolve a conferência do carro; nil se não existir.
func (r *ReviewRepo) GetByCartID(ctx context.Context, cartID string) (*entity.CartReview, error) {
	query := `
		SELECT id, cart_id, stage, dispatch_numbers, reviewer_id, created_at, updated_at
		FROM cart_reviews WHERE cart_id = $1`
	var rev entity.CartReview
	var stage string
	err := r.q.QueryRow(ctx, query, cartID).Scan(
		&rev.ID, &rev.CartID, &stage, &rev.DispatchNumbers,
		&rev.ReviewerID, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	rev.Stage = entity.ReviewStage(stage)
	return &rev, nil
}

// Update atualiza estágio, números de lançamento e conferente.
func (r *ReviewRepo) Update(ctx context.Context, review *entity.CartReview) error {
	query := `
		UPDATE cart_reviews
		SET stage = $2, dispatch_numbers = $3, reviewer_id = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		review.ID, string(review.Stage), review.DispatchNumbers, review.ReviewerID, review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update review: conferência %s não encontrada", review.ID)
	}
	return nil
}
