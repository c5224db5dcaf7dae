package admission

import (
	"context"
	"fmt"

	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/scan"
)

// Outcome resultado da validação de admissão.
type Outcome string

const (
	// OutcomeAdmit a nota entra no carro (válida ou divergente de destino).
	OutcomeAdmit Outcome = "admitida"
	// OutcomeRejectRecorded rejeitada, mas gravada no carro para auditoria.
	OutcomeRejectRecorded Outcome = "rejeitada_registrada"
	// OutcomeRejectSilent rejeitada sem gravação: a nota já tem registro no
	// carro onde foi admitida primeiro.
	OutcomeRejectSilent Outcome = "rejeitada_silenciosa"
)

// Decision decisão de admissão de uma bipagem.
type Decision struct {
	Outcome Outcome
	// Status status a gravar na entrada (para Admit e RejectRecorded).
	Status entity.EntryStatus
	// Detail detalhe de erro gravado na entrada.
	Detail string
	// Reason erro de domínio correspondente, para o chamador.
	Reason error
	// Conflict registro da outra admissão (apenas RejectSilent).
	Conflict *entity.AdmissionRecord
}

// Validator aplica as regras de admissão na ordem exigida, com curto-circuito:
// duplicata no carro, duplicata global, segregação de tipo de carga,
// existência no recebimento e coerência de destino.
type Validator struct {
	receiving ReceivingRegistry
	ledger    AdmissionLedger
}

// NewValidator constrói o validador com os colaboradores externos.
func NewValidator(receiving ReceivingRegistry, ledger AdmissionLedger) *Validator {
	return &Validator{receiving: receiving, ledger: ledger}
}

// Validate decide a admissão de uma nota decodificada no carro. Não muta
// nada: a gravação no carro e o insert no ledger são do caso de uso.
// A leitura do ledger aqui é consultiva; o TryInsert posterior é o ponto de
// commit que decide corridas.
func (v *Validator) Validate(ctx context.Context, cart *entity.Cart, d *scan.Decoded) (Decision, error) {
	// 1. Duplicata dentro do carro: gravada como inválida, para auditoria.
	if cart.HasInvoice(d.InvoiceNumber) {
		return Decision{
			Outcome: OutcomeRejectRecorded,
			Status:  entity.EntryStatusDuplicate,
			Detail:  "nota já bipada neste carro",
			Reason:  domain.ErrDuplicateInCart,
		}, nil
	}

	// 2. Duplicata global: já admitida em outro carro; nada é gravado aqui
	// porque o registro vive no carro onde entrou primeiro.
	if rec, err := v.ledger.Get(ctx, d.InvoiceNumber); err != nil {
		return Decision{}, fmt.Errorf("consultar ledger de admissão: %w", err)
	} else if rec != nil && rec.CartID != cart.ID {
		return Decision{
			Outcome:  OutcomeRejectSilent,
			Reason:   &domain.AlreadyAdmittedError{InvoiceNumber: d.InvoiceNumber, CartID: rec.CartID, AdmittedAt: rec.AdmittedAt},
			Conflict: rec,
		}, nil
	}

	// 3. Segregação de tipo de carga: ROD e CON nunca compartilham carro.
	// A primeira nota admitida trava o tipo.
	types := cart.CargoTypes()
	if len(types) == 1 {
		if (types[entity.CargoTypeROD] && d.CargoType == entity.CargoTypeCON) ||
			(types[entity.CargoTypeCON] && d.CargoType == entity.CargoTypeROD) {
			return Decision{
				Outcome: OutcomeRejectRecorded,
				Status:  entity.EntryStatusInvalid,
				Detail:  "segregação de carga: " + d.CargoType + " não entra em carro " + firstKey(types),
				Reason:  domain.ErrSegregationConflict,
			}, nil
		}
	}

	// 4. Existência no recebimento.
	received, err := v.receiving.Exists(ctx, d.InvoiceNumber)
	if err != nil {
		return Decision{}, fmt.Errorf("consultar recebimento: %w", err)
	}
	if !received {
		return Decision{
			Outcome: OutcomeRejectRecorded,
			Status:  entity.EntryStatusInvalid,
			Detail:  "nota sem registro de recebimento",
			Reason:  domain.ErrNotReceived,
		}, nil
	}

	// 5. Coerência de destino: diverge? Admite mesmo assim, sinalizada para
	// conferência; rejeitar travaria a embalagem por dado ambíguo mas
	// possivelmente correto.
	if v.destinationDiverges(cart, d) {
		return Decision{
			Outcome: OutcomeAdmit,
			Status:  entity.EntryStatusDivergent,
			Detail:  "destino diverge das notas já bipadas",
		}, nil
	}

	return Decision{Outcome: OutcomeAdmit, Status: entity.EntryStatusValid}, nil
}

// destinationDiverges compara código de destino e destino final (normalizado)
// com o conjunto já presente entre as notas válidas do carro.
func (v *Validator) destinationDiverges(cart *entity.Cart, d *scan.Decoded) bool {
	codes := make(map[string]bool)
	finals := make(map[string]bool)
	for _, e := range cart.ValidEntries() {
		codes[e.DestinationCode] = true
		finals[scan.NormalizeDestination(e.FinalDestination)] = true
	}
	if len(codes) == 0 {
		return false
	}
	return !codes[d.DestinationCode] || !finals[scan.NormalizeDestination(d.FinalDestination)]
}

func firstKey(set map[string]bool) string {
	for k := range set {
		return k
	}
	return ""
}
