package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
)

var _ storage.SlotSuggestionProvider = (*SuggestionProvider)(nil)

// SuggestionProvider ranking simples de posições livres: posições cujo
// destino preferencial bate com o destino da carga do palete vêm primeiro;
// dentro de cada grupo a ordem é estável por código. Cada candidato é uma
// sugestão de posição única (paletes divididos recebem uma lista e o
// chamador consome quantas precisar).
type SuggestionProvider struct {
	positions repository.PositionRepository
	loads     repository.LoadRepository
}

// NewSuggestionProvider constrói o provedor sobre os repositórios dados.
func NewSuggestionProvider(positions repository.PositionRepository, loads repository.LoadRepository) *SuggestionProvider {
	return &SuggestionProvider{positions: positions, loads: loads}
}

// Suggest devolve posições livres ranqueadas para o palete, filtradas por
// nível (level < 0 = todos).
func (p *SuggestionProvider) Suggest(ctx context.Context, pallet *entity.Pallet, level int) ([]storage.PositionSuggestion, error) {
	available, err := p.positions.ListAvailable(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("list available positions: %w", err)
	}

	destination := ""
	if pallet.LoadID != "" {
		load, err := p.loads.GetByID(ctx, pallet.LoadID)
		if err != nil {
			return nil, fmt.Errorf("get load: %w", err)
		}
		if load != nil {
			destination = load.Destination
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		mi := destination != "" && available[i].PreferredDestination == destination
		mj := destination != "" && available[j].PreferredDestination == destination
		if mi != mj {
			return mi
		}
		return available[i].Code < available[j].Code
	})

	suggestions := make([]storage.PositionSuggestion, 0, len(available))
	for _, pos := range available {
		suggestions = append(suggestions, storage.PositionSuggestion{Positions: []*entity.Position{pos}})
	}
	return suggestions, nil
}
