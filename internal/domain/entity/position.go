package entity

import "time"

// PositionStatus status de uma posição de armazenagem (conjunto fechado).
type PositionStatus string

const (
	PositionStatusAvailable PositionStatus = "livre"
	PositionStatusOccupied  PositionStatus = "ocupada"
	PositionStatusBlocked   PositionStatus = "bloqueada"
)

// Position posição única de armazenagem, identificada por código e nível.
// Invariante: status ocupada se e somente se PalletID não vazio; bloqueada
// apenas por ação explícita e nunca aparece em sugestões.
type Position struct {
	ID                   string
	Code                 string
	Level                int
	PreferredDestination string // cliente/destino preferencial da posição (opcional)
	Status               PositionStatus
	PalletID             string // vazio quando livre ou bloqueada
	BlockReason          string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Consistent verifica o invariante status/palete da posição.
func (p *Position) Consistent() bool {
	if p.Status == PositionStatusOccupied {
		return p.PalletID != ""
	}
	return p.PalletID == ""
}
