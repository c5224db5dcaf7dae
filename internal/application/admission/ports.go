package admission

import (
	"context"

	"github.com/logfarma/armazem-api/internal/domain/entity"
)

// ReceivingRegistry colaborador externo: registro das notas já processadas
// pelo recebimento. A admissão exige presença aqui.
type ReceivingRegistry interface {
	Exists(ctx context.Context, invoiceNumber string) (bool, error)
	Get(ctx context.Context, invoiceNumber string) (*entity.ReceivingRecord, error)
}

// AdmissionLedger ledger compartilhado de notas admitidas entre todos os
// carros e coletores. TryInsert é condicional ("insere se ausente"): dois
// operadores bipando a mesma nota no mesmo instante produzem exatamente uma
// admissão.
type AdmissionLedger interface {
	TryInsert(ctx context.Context, invoiceNumber, cartID, operatorID string) (bool, error)
	// Get devolve o registro de admissão; nil se a nota não está admitida.
	Get(ctx context.Context, invoiceNumber string) (*entity.AdmissionRecord, error)
	// Remove libera o código (remoção de bipagem válida em carro ainda em bipagem).
	Remove(ctx context.Context, invoiceNumber string) error
}
