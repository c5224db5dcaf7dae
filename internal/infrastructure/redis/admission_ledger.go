package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/domain/entity"
)

var _ admission.AdmissionLedger = (*AdmissionLedger)(nil)

// keyPrefix namespace das notas admitidas no Redis.
const keyPrefix = "admissao:nota:"

// admissionValue forma persistida do registro de admissão.
type admissionValue struct {
	CartID     string    `json:"cart_id"`
	OperatorID string    `json:"operator_id"`
	AdmittedAt time.Time `json:"admitted_at"`
}

// AdmissionLedger ledger de admissão sobre Redis. SET NX garante a
// exclusividade: entre dois coletores bipando a mesma nota no mesmo
// instante, exatamente um insere.
type AdmissionLedger struct {
	client *redis.Client
}

// NewClient abre a conexão a partir da URL (redis://host:porta/db) e
// valida com PING.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// NewAdmissionLedger constrói o ledger sobre o cliente dado.
func NewAdmissionLedger(client *redis.Client) *AdmissionLedger {
	return &AdmissionLedger{client: client}
}

// TryInsert registra a admissão se a nota ainda não está no ledger.
// Devolve false quando outro carro chegou primeiro.
func (l *AdmissionLedger) TryInsert(ctx context.Context, invoiceNumber, cartID, operatorID string) (bool, error) {
	payload, err := json.Marshal(admissionValue{
		CartID:     cartID,
		OperatorID: operatorID,
		AdmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal admission: %w", err)
	}
	ok, err := l.client.SetNX(ctx, keyPrefix+invoiceNumber, payload, 0).Result()
	if err != nil {
		return false, fmt.Errorf("setnx admission: %w", err)
	}
	return ok, nil
}

// Get devolve o registro de admissão; nil se a nota não está admitida.
func (l *AdmissionLedger) Get(ctx context.Context, invoiceNumber string) (*entity.AdmissionRecord, error) {
	raw, err := l.client.Get(ctx, keyPrefix+invoiceNumber).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admission: %w", err)
	}
	var v admissionValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("unmarshal admission: %w", err)
	}
	return &entity.AdmissionRecord{
		InvoiceNumber: invoiceNumber,
		CartID:        v.CartID,
		OperatorID:    v.OperatorID,
		AdmittedAt:    v.AdmittedAt,
	}, nil
}

// Remove libera a nota no ledger (remoção de bipagem válida).
func (l *AdmissionLedger) Remove(ctx context.Context, invoiceNumber string) error {
	if err := l.client.Del(ctx, keyPrefix+invoiceNumber).Err(); err != nil {
		return fmt.Errorf("del admission: %w", err)
	}
	return nil
}
