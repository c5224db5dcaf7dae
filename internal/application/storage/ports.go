package storage

import (
	"context"

	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD com repositórios
// de posição e palete atados à tx. Ocupação multi-posição, transferência e
// liberação na expedição são um único commit: tudo ou nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		positionRepo repository.PositionRepository,
		palletRepo repository.PalletRepository,
	) error) error
}

// PositionSuggestion conjunto de posições sugeridas como unidade atômica:
// uma posição para palete inteiro, várias para palete dividido.
type PositionSuggestion struct {
	Positions []*entity.Position
}

// SlotSuggestionProvider colaborador externo de ranking de posições.
// O critério interno de pontuação está fora deste núcleo; aqui importa
// apenas o protocolo que transforma sugestão em vínculo confirmado.
type SlotSuggestionProvider interface {
	// Suggest devolve candidatos ranqueados para o palete, filtrados por
	// nível do armazém (level < 0 = todos os níveis).
	Suggest(ctx context.Context, pallet *entity.Pallet, level int) ([]PositionSuggestion, error)
}
