package memory

import (
	"context"
	"sync"
	"time"

	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/domain/entity"
)

var (
	_ admission.AdmissionLedger   = (*AdmissionLedger)(nil)
	_ admission.ReceivingRegistry = (*ReceivingRegistry)(nil)
)

// AdmissionLedger ledger de admissão em memória, com a mesma semântica
// condicional do ledger Redis. Seguro para uso concorrente.
type AdmissionLedger struct {
	mu      sync.Mutex
	records map[string]*entity.AdmissionRecord
}

// NewAdmissionLedger constrói um ledger vazio.
func NewAdmissionLedger() *AdmissionLedger {
	return &AdmissionLedger{records: make(map[string]*entity.AdmissionRecord)}
}

// TryInsert insere se ausente; devolve false quando a nota já está admitida.
func (l *AdmissionLedger) TryInsert(_ context.Context, invoiceNumber, cartID, operatorID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[invoiceNumber]; ok {
		return false, nil
	}
	l.records[invoiceNumber] = &entity.AdmissionRecord{
		InvoiceNumber: invoiceNumber,
		CartID:        cartID,
		OperatorID:    operatorID,
		AdmittedAt:    time.Now().UTC(),
	}
	return true, nil
}

// Get devolve o registro de admissão; nil se ausente.
func (l *AdmissionLedger) Get(_ context.Context, invoiceNumber string) (*entity.AdmissionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[invoiceNumber]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

// Remove libera a nota no ledger.
func (l *AdmissionLedger) Remove(_ context.Context, invoiceNumber string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, invoiceNumber)
	return nil
}

// Len devolve o número de notas admitidas.
func (l *AdmissionLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// ReceivingRegistry registro de recebimento em memória.
type ReceivingRegistry struct {
	mu      sync.Mutex
	records map[string]*entity.ReceivingRecord
}

// NewReceivingRegistry constrói um registro vazio.
func NewReceivingRegistry() *ReceivingRegistry {
	return &ReceivingRegistry{records: make(map[string]*entity.ReceivingRecord)}
}

// Put registra uma nota como recebida.
func (r *ReceivingRegistry) Put(rec *entity.ReceivingRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[rec.InvoiceNumber] = &cp
}

// Exists informa se a nota passou pelo recebimento.
func (r *ReceivingRegistry) Exists(_ context.Context, invoiceNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[invoiceNumber]
	return ok, nil
}

// Get devolve o registro de recebimento; nil se ausente.
func (r *ReceivingRegistry) Get(_ context.Context, invoiceNumber string) (*entity.ReceivingRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[invoiceNumber]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}
