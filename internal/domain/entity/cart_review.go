package entity

import (
	"time"

	"github.com/logfarma/armazem-api/internal/domain"
)

// ReviewStage ciclo de vida do lado administrativo, independente do ciclo de
// bipagem: conferência central do carro após entrar em embalagem.
type ReviewStage string

const (
	ReviewStagePacking          ReviewStage = "embalando"
	ReviewStageDivergenceReview ReviewStage = "conferencia_divergencia"
	ReviewStageAwaitingDispatch ReviewStage = "aguardando_lancamento"
	ReviewStageDispatched       ReviewStage = "lancado" // terminal
)

// dispatchNumberLen números de lançamento têm exatamente 6 dígitos ASCII.
const dispatchNumberLen = 6

// CartReview registro de conferência central de um carro embalado, com o
// conjunto de números de lançamento coletados antes da expedição.
type CartReview struct {
	ID              string
	CartID          string
	Stage           ReviewStage
	DispatchNumbers []string
	ReviewerID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ToDivergenceReview transiciona embalando -> conferencia_divergencia.
func (r *CartReview) ToDivergenceReview() error {
	if r.Stage != ReviewStagePacking {
		return &domain.InvalidTransitionError{From: string(r.Stage), To: string(ReviewStageDivergenceReview)}
	}
	r.Stage = ReviewStageDivergenceReview
	r.UpdatedAt = time.Now()
	return nil
}

// ToAwaitingDispatch transiciona conferencia_divergencia -> aguardando_lancamento.
func (r *CartReview) ToAwaitingDispatch() error {
	if r.Stage != ReviewStageDivergenceReview {
		return &domain.InvalidTransitionError{From: string(r.Stage), To: string(ReviewStageAwaitingDispatch)}
	}
	r.Stage = ReviewStageAwaitingDispatch
	r.UpdatedAt = time.Now()
	return nil
}

// AddDispatchNumber coleta um número de lançamento externo. Só é aceito em
// aguardando_lancamento; exige exatamente 6 dígitos e unicidade no conjunto.
func (r *CartReview) AddDispatchNumber(number string) error {
	if r.Stage != ReviewStageAwaitingDispatch {
		return &domain.InvalidTransitionError{From: string(r.Stage), To: string(ReviewStageAwaitingDispatch)}
	}
	if !ValidDispatchNumber(number) {
		return domain.ErrDispatchNumber
	}
	for _, n := range r.DispatchNumbers {
		if n == number {
			return domain.ErrDispatchNumber
		}
	}
	r.DispatchNumbers = append(r.DispatchNumbers, number)
	r.UpdatedAt = time.Now()
	return nil
}

// Dispatch transiciona aguardando_lancamento -> lancado (terminal).
// Exige ao menos um número de lançamento coletado.
func (r *CartReview) Dispatch() error {
	if r.Stage != ReviewStageAwaitingDispatch {
		return &domain.InvalidTransitionError{From: string(r.Stage), To: string(ReviewStageDispatched)}
	}
	if len(r.DispatchNumbers) == 0 {
		return domain.ErrDispatchNumber
	}
	r.Stage = ReviewStageDispatched
	r.UpdatedAt = time.Now()
	return nil
}

// ValidDispatchNumber informa se o número tem exatamente 6 dígitos ASCII.
func ValidDispatchNumber(s string) bool {
	if len(s) != dispatchNumberLen {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ArchivedEntry registro de longo prazo de uma nota de carro lançado,
// chaveado pelo número de lançamento.
type ArchivedEntry struct {
	ID               string
	DispatchNumber   string
	CartID           string
	InvoiceNumber    string
	Code             string
	Volume           int
	FinalDestination string
	ArchivedAt       time.Time
}
