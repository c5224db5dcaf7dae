package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/logfarma/armazem-api/internal/domain"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/logfarma/armazem-api/internal/domain/repository"
	"github.com/logfarma/armazem-api/internal/domain/scan"
	"github.com/logfarma/armazem-api/pkg/logger"
)

// Result resultado de uma tentativa de bipagem.
type Result struct {
	Outcome Outcome
	// Entry entrada gravada no carro (nil em rejeição silenciosa).
	Entry *entity.InvoiceEntry
	// Conflict admissão existente em outro carro (rejeição silenciosa).
	Conflict *entity.AdmissionRecord
	// Reason erro de domínio que motivou a rejeição (nil quando válida).
	Reason error
}

// AdmitScanUseCase admissão de bipagens: decodifica, valida contra o carro,
// o ledger global e o recebimento, e grava o resultado para auditoria.
type AdmitScanUseCase struct {
	cartRepo  repository.CartRepository
	ledger    AdmissionLedger
	validator *Validator
	log       *logger.Logger
}

// NewAdmitScanUseCase constrói o caso de uso.
func NewAdmitScanUseCase(cartRepo repository.CartRepository, receiving ReceivingRegistry, ledger AdmissionLedger, log *logger.Logger) *AdmitScanUseCase {
	return &AdmitScanUseCase{
		cartRepo:  cartRepo,
		ledger:    ledger,
		validator: NewValidator(receiving, ledger),
		log:       log,
	}
}

// AdmitScan processa um código bipado contra o carro indicado.
//
// Erros de formato/volume/duplicata/segregação/recebimento são gravados no
// carro como entrada com o status correspondente (trilha de auditoria) e o
// Result informa o motivo; nada disso é fatal. A única rejeição não gravada
// é a duplicata global, que já tem registro no carro de origem.
func (uc *AdmitScanUseCase) AdmitScan(ctx context.Context, cartID, operatorID, raw string) (*Result, error) {
	cart, err := uc.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}
	if cart.Locked() {
		return nil, &domain.LockedCartError{CartID: cart.ID, Status: string(cart.Status)}
	}

	decoded, decodeErr := scan.Decode(raw)
	if decodeErr != nil {
		return uc.recordDecodeFailure(ctx, cart, operatorID, raw, decodeErr)
	}

	decision, err := uc.validator.Validate(ctx, cart, decoded)
	if err != nil {
		return nil, err
	}

	switch decision.Outcome {
	case OutcomeRejectSilent:
		uc.log.Info().
			Str("cart_id", cart.ID).
			Str("invoice_number", decoded.InvoiceNumber).
			Str("admitted_in", decision.Conflict.CartID).
			Msg("bipagem rejeitada: nota já admitida em outro carro")
		return &Result{Outcome: OutcomeRejectSilent, Conflict: decision.Conflict, Reason: decision.Reason}, nil

	case OutcomeRejectRecorded:
		entry := uc.newEntry(cart, decoded, operatorID, decision.Status, decision.Detail)
		if err := uc.append(ctx, cart, entry); err != nil {
			return nil, err
		}
		return &Result{Outcome: OutcomeRejectRecorded, Entry: entry, Reason: decision.Reason}, nil
	}

	// Admissão: o TryInsert condicional é o ponto de commit. Perder a
	// corrida aqui equivale à duplicata global do passo 2.
	inserted, err := uc.ledger.TryInsert(ctx, decoded.InvoiceNumber, cart.ID, operatorID)
	if err != nil {
		return nil, fmt.Errorf("inserir no ledger de admissão: %w", err)
	}
	if !inserted {
		rec, err := uc.ledger.Get(ctx, decoded.InvoiceNumber)
		if err != nil {
			return nil, fmt.Errorf("consultar ledger de admissão: %w", err)
		}
		reason := error(domain.ErrConcurrencyConflict)
		if rec != nil {
			reason = &domain.AlreadyAdmittedError{InvoiceNumber: decoded.InvoiceNumber, CartID: rec.CartID, AdmittedAt: rec.AdmittedAt}
		}
		return &Result{Outcome: OutcomeRejectSilent, Conflict: rec, Reason: reason}, nil
	}

	entry := uc.newEntry(cart, decoded, operatorID, decision.Status, decision.Detail)
	if err := uc.append(ctx, cart, entry); err != nil {
		// Admissão sem entrada gravada violaria o invariante do ledger.
		if rmErr := uc.ledger.Remove(ctx, decoded.InvoiceNumber); rmErr != nil {
			uc.log.Error().Err(rmErr).Str("invoice_number", decoded.InvoiceNumber).Msg("falha ao desfazer admissão no ledger")
		}
		return nil, err
	}
	return &Result{Outcome: OutcomeAdmit, Entry: entry}, nil
}

// recordDecodeFailure grava bipagens malformadas como entradas inválidas.
func (uc *AdmitScanUseCase) recordDecodeFailure(ctx context.Context, cart *entity.Cart, operatorID, raw string, decodeErr error) (*Result, error) {
	status := entity.EntryStatusInvalidFormat
	var volErr *scan.VolumeError
	if errors.As(decodeErr, &volErr) {
		status = entity.EntryStatusInvalidVolume
	}
	entry := &entity.InvoiceEntry{
		ID:          uuid.New().String(),
		Code:        raw,
		Status:      status,
		ErrorDetail: decodeErr.Error(),
		ScannedAt:   time.Now(),
		ScannedBy:   operatorID,
	}
	if err := uc.append(ctx, cart, entry); err != nil {
		return nil, err
	}
	return &Result{Outcome: OutcomeRejectRecorded, Entry: entry, Reason: decodeErr}, nil
}

func (uc *AdmitScanUseCase) newEntry(cart *entity.Cart, d *scan.Decoded, operatorID string, status entity.EntryStatus, detail string) *entity.InvoiceEntry {
	return &entity.InvoiceEntry{
		ID:               uuid.New().String(),
		CartID:           cart.ID,
		InvoiceNumber:    d.InvoiceNumber,
		Code:             d.Code,
		Volume:           d.Volume,
		DestinationCode:  d.DestinationCode,
		SupplierName:     d.SupplierName,
		FinalDestination: d.FinalDestination,
		CargoType:        d.CargoType,
		Status:           status,
		ErrorDetail:      detail,
		ScannedAt:        time.Now(),
		ScannedBy:        operatorID,
	}
}

func (uc *AdmitScanUseCase) append(ctx context.Context, cart *entity.Cart, entry *entity.InvoiceEntry) error {
	if err := cart.Append(entry); err != nil {
		return err
	}
	return uc.cartRepo.AppendEntry(ctx, entry)
}
