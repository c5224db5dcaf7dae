package entity

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// PalletStatus status do palete (conjunto fechado).
type PalletStatus string

const (
	PalletStatusAwaiting PalletStatus = "aguardando_armazenagem"
	PalletStatusStored   PalletStatus = "armazenado"
	PalletStatusShipped  PalletStatus = "expedido" // sem posições
)

// palletCodeRe formato PAL-nnnnn, com sufixo _i-n para paletes divididos
// que compartilham uma carga (i-ésimo de n, indexado em 1).
var palletCodeRe = regexp.MustCompile(`^PAL-\d{5}(_[1-9]\d*-[1-9]\d*)?$`)

// Pallet unidade física atribuída a uma ou mais posições do armazém.
// PositionIDs é derivado das posições que o referenciam (consistência
// bidirecional garantida pelo ledger, nunca por dois contadores soltos).
type Pallet struct {
	ID           string
	Code         string
	LoadID       string
	PositionIDs  []string
	Status       PalletStatus
	InvoiceCount int
	VolumeCount  int
	GrossWeight  decimal.Decimal // kg, vindo dos registros de recebimento
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidPalletCode informa se o código segue o formato PAL-nnnnn[_i-n].
func ValidPalletCode(code string) bool {
	return palletCodeRe.MatchString(code)
}

// PalletCode monta o código de um palete inteiro a partir do sequencial.
func PalletCode(seq int) string {
	return fmt.Sprintf("PAL-%05d", seq)
}

// SplitPalletCode monta o código do i-ésimo palete de uma divisão em n.
func SplitPalletCode(seq, i, n int) string {
	return fmt.Sprintf("PAL-%05d_%d-%d", seq, i, n)
}
