package dto

import (
	"time"

	"github.com/logfarma/armazem-api/internal/application/storage"
	"github.com/logfarma/armazem-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreatePositionRequest cadastro de posição de armazenagem.
type CreatePositionRequest struct {
	Code                 string `json:"code" validate:"required"`
	Level                int    `json:"level" validate:"min=0"`
	PreferredDestination string `json:"preferred_destination"`
}

// BlockPositionRequest bloqueio de posição livre.
type BlockPositionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CreateLoadRequest cadastro de carga.
type CreateLoadRequest struct {
	Destination string `json:"destination" validate:"required"`
	ClientName  string `json:"client_name"`
}

// CreatePalletRequest cadastro de palete de uma carga.
type CreatePalletRequest struct {
	Code         string          `json:"code" validate:"required"`
	LoadID       string          `json:"load_id" validate:"required"`
	InvoiceCount int             `json:"invoice_count" validate:"min=0"`
	VolumeCount  int             `json:"volume_count" validate:"min=0"`
	GrossWeight  decimal.Decimal `json:"gross_weight"`
}

// StartConfirmationRequest abertura de protocolo de confirmação.
type StartConfirmationRequest struct {
	PalletID string `json:"pallet_id" validate:"required"`
	// Level filtro de nível do armazém para o endereçamento (-1 = todos).
	Level int `json:"level"`
}

// ConfirmScanRequest uma bipagem dentro do protocolo.
type ConfirmScanRequest struct {
	Code string `json:"code" validate:"required"`
}

// PositionResponse posição exposta à apresentação.
type PositionResponse struct {
	ID                   string `json:"id"`
	Code                 string `json:"code"`
	Level                int    `json:"level"`
	PreferredDestination string `json:"preferred_destination,omitempty"`
	Status               string `json:"status"`
	PalletID             string `json:"pallet_id,omitempty"`
	BlockReason          string `json:"block_reason,omitempty"`
}

// PalletResponse palete exposto à apresentação.
type PalletResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	LoadID       string          `json:"load_id"`
	Status       string          `json:"status"`
	PositionIDs  []string        `json:"position_ids"`
	InvoiceCount int             `json:"invoice_count"`
	VolumeCount  int             `json:"volume_count"`
	GrossWeight  decimal.Decimal `json:"gross_weight"`
}

// LoadTotalsResponse agregados recomputados de uma carga.
type LoadTotalsResponse struct {
	Pallets     int             `json:"pallets"`
	Invoices    int             `json:"invoices"`
	Volumes     int             `json:"volumes"`
	GrossWeight decimal.Decimal `json:"gross_weight"`
}

// SuggestionResponse um candidato (conjunto atômico de posições).
type SuggestionResponse struct {
	Positions []PositionResponse `json:"positions"`
}

// ConfirmationResponse estado do protocolo devolvido ao coletor.
type ConfirmationResponse struct {
	ID               string             `json:"id"`
	Mode             string             `json:"mode"`
	State            string             `json:"state"`
	PalletCode       string             `json:"pallet_code"`
	TargetPositions  []PositionResponse `json:"target_positions"`
	ExpectedLocation string             `json:"expected_location"`
	CreatedAt        time.Time          `json:"created_at"`
}

// ToPositionResponse converte a entidade para o DTO de resposta.
func ToPositionResponse(p *entity.Position) PositionResponse {
	return PositionResponse{
		ID:                   p.ID,
		Code:                 p.Code,
		Level:                p.Level,
		PreferredDestination: p.PreferredDestination,
		Status:               string(p.Status),
		PalletID:             p.PalletID,
		BlockReason:          p.BlockReason,
	}
}

// ToPalletResponse converte a entidade para o DTO de resposta.
func ToPalletResponse(p *entity.Pallet) PalletResponse {
	return PalletResponse{
		ID:           p.ID,
		Code:         p.Code,
		LoadID:       p.LoadID,
		Status:       string(p.Status),
		PositionIDs:  p.PositionIDs,
		InvoiceCount: p.InvoiceCount,
		VolumeCount:  p.VolumeCount,
		GrossWeight:  p.GrossWeight,
	}
}

// ToConfirmationResponse converte a instância do protocolo para resposta.
func ToConfirmationResponse(c *storage.Confirmation) ConfirmationResponse {
	targets := make([]PositionResponse, 0, len(c.TargetPositions))
	for _, p := range c.TargetPositions {
		targets = append(targets, ToPositionResponse(p))
	}
	return ConfirmationResponse{
		ID:               c.ID,
		Mode:             string(c.Mode),
		State:            string(c.State),
		PalletCode:       c.PalletCode,
		TargetPositions:  targets,
		ExpectedLocation: c.ExpectedLocation(),
		CreatedAt:        c.CreatedAt,
	}
}

// ToSuggestionResponse converte uma sugestão para resposta.
func ToSuggestionResponse(s storage.PositionSuggestion) SuggestionResponse {
	positions := make([]PositionResponse, 0, len(s.Positions))
	for _, p := range s.Positions {
		positions = append(positions, ToPositionResponse(p))
	}
	return SuggestionResponse{Positions: positions}
}
