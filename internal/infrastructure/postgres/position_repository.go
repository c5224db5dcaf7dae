package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ repository.PositionRepository = (*PositionRepo)(nil)

// PositionRepo implementação de PositionRepository sobre PostgreSQL.
// Occupy/Release/Block/Unblock são UPDATEs condicionais chaveados no status
// anterior (compare-and-swap): quem perde a corrida não muda nada e recebe
// o erro de conflito.
type PositionRepo struct {
	q Querier
}

// NewPositionRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewPositionRepository(q Querier) *PositionRepo {
	return &PositionRepo{q: q}
}

const positionColumns = `id, code, level, preferred_destination, status, COALESCE(pallet_id, ''), block_reason, created_at, updated_at`

// Create persiste uma posição nova.
func (r *PositionRepo) Create(ctx context.Context, p *entity.Position) error {
	query := `
		INSERT INTO positions (id, code, level, preferred_destination, status, block_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.Level, p.PreferredDestination, string(p.Status), p.BlockReason, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert position: código %s já cadastrado", p.Code)
		}
		return fmt.Errorf("insert position: %w", err)
	}
	return nil
}

// GetByID devolve a posição; nil se não existir.
func (r *PositionRepo) GetByID(ctx context.Context, id string) (*entity.Position, error) {
	return r.getWhere(ctx, "id = $1", id)
}

// GetByCode devolve a posição pelo código; nil se não existir.
func (r *PositionRepo) GetByCode(ctx context.Context, code string) (*entity.Position, error) {
	return r.getWhere(ctx, "code = $1", code)
}

func (r *PositionRepo) getWhere(ctx context.Context, where string, arg any) (*entity.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE ` + where
	var p entity.Position
	var status string
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Code, &p.Level, &p.PreferredDestination, &status, &p.PalletID, &p.BlockReason, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get position: %w", err)
	}
	p.Status = entity.PositionStatus(status)
	return &p, nil
}

// List lista posições ordenadas por código.
func (r *PositionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions ORDER BY code LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

// ListAvailable devolve posições livres, filtradas por nível (level < 0 = todos).
// Posições bloqueadas nunca aparecem aqui.
func (r *PositionRepo) ListAvailable(ctx context.Context, level int) ([]*entity.Position, error) {
	if level < 0 {
		query := `SELECT ` + positionColumns + ` FROM positions WHERE status = $1 ORDER BY level, code`
		return r.list(ctx, query, string(entity.PositionStatusAvailable))
	}
	query := `SELECT ` + positionColumns + ` FROM positions WHERE status = $1 AND level = $2 ORDER BY code`
	return r.list(ctx, query, string(entity.PositionStatusAvailable), level)
}

// ListByPallet devolve as posições que referenciam o palete.
func (r *PositionRepo) ListByPallet(ctx context.Context, palletID string) ([]*entity.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE pallet_id = $1 ORDER BY code`
	return r.list(ctx, query, palletID)
}

func (r *PositionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Position, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Position
	for rows.Next() {
		var p entity.Position
		var status string
		if err := rows.Scan(&p.ID, &p.Code, &p.Level, &p.PreferredDestination, &status,
			&p.PalletID, &p.BlockReason, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		p.Status = entity.PositionStatus(status)
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Occupy seta ocupada + palete, somente se a posição estiver livre.
func (r *PositionRepo) Occupy(ctx context.Context, positionID, palletID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE positions SET status = $3, pallet_id = $2, updated_at = now()
		WHERE id = $1 AND status = $4`,
		positionID, palletID, string(entity.PositionStatusOccupied), string(entity.PositionStatusAvailable),
	)
	if err != nil {
		return fmt.Errorf("occupy position: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflict(ctx, positionID, entity.PositionStatusAvailable)
	}
	return nil
}

// Release limpa status e palete, somente se a posição estiver ocupada.
func (r *PositionRepo) Release(ctx context.Context, positionID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE positions SET status = $2, pallet_id = NULL, updated_at = now()
		WHERE id = $1 AND status = $3`,
		positionID, string(entity.PositionStatusAvailable), string(entity.PositionStatusOccupied),
	)
	if err != nil {
		return fmt.Errorf("release position: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflict(ctx, positionID, entity.PositionStatusOccupied)
	}
	return nil
}

// Block bloqueia uma posição livre.
func (r *PositionRepo) Block(ctx context.Context, positionID, reason string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE positions SET status = $3, block_reason = $2, updated_at = now()
		WHERE id = $1 AND status = $4`,
		positionID, reason, string(entity.PositionStatusBlocked), string(entity.PositionStatusAvailable),
	)
	if err != nil {
		return fmt.Errorf("block position: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflict(ctx, positionID, entity.PositionStatusAvailable)
	}
	return nil
}

// Unblock devolve uma posição bloqueada a livre.
func (r *PositionRepo) Unblock(ctx context.Context, positionID string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE positions SET status = $2, block_reason = '', updated_at = now()
		WHERE id = $1 AND status = $3`,
		positionID, string(entity.PositionStatusAvailable), string(entity.PositionStatusBlocked),
	)
	if err != nil {
		return fmt.Errorf("unblock position: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.conflict(ctx, positionID, entity.PositionStatusBlocked)
	}
	return nil
}

// conflict classifica um CAS que não afetou linha alguma: posição
// inexistente, status incompatível (indisponível) ou corrida perdida.
func (r *PositionRepo) conflict(ctx context.Context, positionID string, expected entity.PositionStatus) error {
	current, err := r.GetByID(ctx, positionID)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrNotFound
	}
	if current.Status == expected {
		// O status voltou ao esperado entre o UPDATE e esta leitura:
		// outra operação passou na frente.
		return domain.ErrConcurrencyConflict
	}
	return domain.ErrPositionUnavailable
}
