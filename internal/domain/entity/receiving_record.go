package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivingRecord registro do recebimento (etapa anterior à bipagem).
// A admissão de uma nota no carro exige presença aqui.
type ReceivingRecord struct {
	InvoiceNumber string
	Supplier      string
	VolumeCount   int
	GrossWeight   decimal.Decimal // kg declarados no manifesto
	ReceivedAt    time.Time
}

// AdmissionRecord registro durável no ledger de admissão: uma nota admitida,
// em qual carro, quando e por quem. No máximo um registro por número de nota
// enquanto a nota estiver admitida.
type AdmissionRecord struct {
	InvoiceNumber string
	CartID        string
	OperatorID    string
	AdmittedAt    time.Time
}
