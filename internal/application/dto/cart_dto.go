package dto

import (
	"time"

	"github.com/logfarma/armazem-api/internal/domain/entity"
)

// CreateCartRequest criação de carro de bipagem.
type CreateCartRequest struct {
	Name string `json:"name" validate:"required"`
	Flow string `json:"flow"` // embalagem (padrão) ou wms
}

// ScanRequest uma bipagem de código de barras contra o carro.
type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

// DispatchNumberRequest coleta de número de lançamento (6 dígitos).
type DispatchNumberRequest struct {
	Number string `json:"number" validate:"required,len=6"`
}

// EntryResponse bipagem exposta à apresentação.
type EntryResponse struct {
	ID               string    `json:"id"`
	InvoiceNumber    string    `json:"invoice_number"`
	Code             string    `json:"code"`
	Volume           int       `json:"volume"`
	DestinationCode  string    `json:"destination_code"`
	SupplierName     string    `json:"supplier_name"`
	FinalDestination string    `json:"final_destination"`
	CargoType        string    `json:"cargo_type"`
	Status           string    `json:"status"`
	ErrorDetail      string    `json:"error_detail,omitempty"`
	Read             bool      `json:"read"`
	ScannedAt        time.Time `json:"scanned_at"`
}

// CartResponse estado do carro devolvido após cada mutação, somente leitura.
type CartResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Status            string          `json:"status"`
	Entries           []EntryResponse `json:"entries"`
	FinalDestinations []string        `json:"final_destinations"`
	BlockingCount     int             `json:"blocking_count"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ScanResultResponse resultado de uma bipagem, com o estado novo do carro.
type ScanResultResponse struct {
	Outcome string         `json:"outcome"`
	Reason  string         `json:"reason,omitempty"`
	Entry   *EntryResponse `json:"entry,omitempty"`
	// Conflito exibido ao operador quando a nota já foi admitida em outro carro.
	ConflictCartID     string     `json:"conflict_cart_id,omitempty"`
	ConflictAdmittedAt *time.Time `json:"conflict_admitted_at,omitempty"`
	Cart               CartResponse `json:"cart"`
}

// StartPackingResponse par explícito devolvido pela transição de embalagem.
type StartPackingResponse struct {
	Locked    CartResponse `json:"locked"`
	Successor CartResponse `json:"successor"`
}

// ReviewResponse conferência central do carro.
type ReviewResponse struct {
	ID              string    `json:"id"`
	CartID          string    `json:"cart_id"`
	Stage           string    `json:"stage"`
	DispatchNumbers []string  `json:"dispatch_numbers"`
	ReviewerID      string    `json:"reviewer_id,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToEntryResponse converte a entidade para o DTO de resposta.
func ToEntryResponse(e *entity.InvoiceEntry) EntryResponse {
	return EntryResponse{
		ID:               e.ID,
		InvoiceNumber:    e.InvoiceNumber,
		Code:             e.Code,
		Volume:           e.Volume,
		DestinationCode:  e.DestinationCode,
		SupplierName:     e.SupplierName,
		FinalDestination: e.FinalDestination,
		CargoType:        e.CargoType,
		Status:           string(e.Status),
		ErrorDetail:      e.ErrorDetail,
		Read:             e.Read,
		ScannedAt:        e.ScannedAt,
	}
}

// ToCartResponse converte a entidade para o DTO de resposta.
func ToCartResponse(c *entity.Cart) CartResponse {
	entries := make([]EntryResponse, 0, len(c.Entries))
	for _, e := range c.Entries {
		entries = append(entries, ToEntryResponse(e))
	}
	return CartResponse{
		ID:                c.ID,
		Name:              c.Name,
		Status:            string(c.Status),
		Entries:           entries,
		FinalDestinations: c.FinalDestinations(),
		BlockingCount:     c.BlockingCount(),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToReviewResponse converte a entidade para o DTO de resposta.
func ToReviewResponse(r *entity.CartReview) ReviewResponse {
	return ReviewResponse{
		ID:              r.ID,
		CartID:          r.CartID,
		Stage:           string(r.Stage),
		DispatchNumbers: r.DispatchNumbers,
		ReviewerID:      r.ReviewerID,
		UpdatedAt:       r.UpdatedAt,
	}
}
