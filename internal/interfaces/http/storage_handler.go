package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/logfarma/armazem-api/internal/application/dto"
	"github.com/logfarma/armazem-api/internal/application/storage"
)

// StorageHandler ledger de posições/paletes e protocolo de confirmação.
type StorageHandler struct {
	ledger       *storage.LedgerUseCase
	confirmation *storage.ConfirmationService
}

// NewStorageHandler constrói o handler.
func NewStorageHandler(ledger *storage.LedgerUseCase, confirmation *storage.ConfirmationService) *StorageHandler {
	return &StorageHandler{ledger: ledger, confirmation: confirmation}
}

// CreatePosition godoc
// @Summary      Cadastrar posição de armazenagem
// @Tags         storage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePositionRequest  true  "code, level, preferred_destination"
// @Success      201  {object}  dto.PositionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/positions [post]
func (h *StorageHandler) CreatePosition(c *fiber.Ctx) error {
	var in dto.CreatePositionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	created, err := h.ledger.CreatePosition(c.Context(), storage.CreatePositionInput{
		Code:                 in.Code,
		Level:                in.Level,
		PreferredDestination: in.PreferredDestination,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPositionResponse(created))
}

// ListPositions godoc
// @Summary      Listar posições
// @Tags         storage
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de itens (padrão 20)"
// @Param        offset  query  int  false  "deslocamento"
// @Success      200  {array}  dto.PositionResponse
// @Router       /api/positions [get]
func (h *StorageHandler) ListPositions(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	page.DefaultPage()
	positions, err := h.ledger.ListPositions(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PositionResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, dto.ToPositionResponse(p))
	}
	return c.JSON(out)
}

// BlockPosition godoc
// @Summary      Bloquear posição livre
// @Tags         storage
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID da posição"
// @Param        body  body  dto.BlockPositionRequest  true  "reason"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/positions/{id}/block [post]
func (h *StorageHandler) BlockPosition(c *fiber.Ctx) error {
	var in dto.BlockPositionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := h.ledger.BlockPosition(c.Context(), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnblockPosition godoc
// @Summary      Desbloquear posição
// @Tags         storage
// @Security     Bearer
// @Param        id  path  string  true  "ID da posição"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/positions/{id}/unblock [post]
func (h *StorageHandler) UnblockPosition(c *fiber.Ctx) error {
	if err := h.ledger.UnblockPosition(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateLoad godoc
// @Summary      Cadastrar carga
// @Tags         storage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLoadRequest  true  "destination, client_name"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/loads [post]
func (h *StorageHandler) CreateLoad(c *fiber.Ctx) error {
	var in dto.CreateLoadRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	created, err := h.ledger.CreateLoad(c.Context(), in.Destination, in.ClientName)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":          created.ID,
		"destination": created.Destination,
		"client_name": created.ClientName,
	})
}

// LoadTotals godoc
// @Summary      Agregados de uma carga
// @Description  Recomputados a partir dos paletes membros.
// @Tags         storage
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID da carga"
// @Success      200  {object}  dto.LoadTotalsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loads/{id}/totals [get]
func (h *StorageHandler) LoadTotals(c *fiber.Ctx) error {
	totals, err := h.ledger.LoadTotals(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LoadTotalsResponse{
		Pallets:     totals.Pallets,
		Invoices:    totals.Invoices,
		Volumes:     totals.Volumes,
		GrossWeight: totals.GrossWeight,
	})
}

// CreatePallet godoc
// @Summary      Cadastrar palete de uma carga
// @Description  Código PAL-nnnnn; sufixo _i-n para paletes divididos.
// @Tags         storage
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePalletRequest  true  "code, load_id, invoice_count, volume_count, gross_weight"
// @Success      201  {object}  dto.PalletResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/pallets [post]
func (h *StorageHandler) CreatePallet(c *fiber.Ctx) error {
	var in dto.CreatePalletRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	created, err := h.ledger.CreatePallet(c.Context(), storage.CreatePalletInput{
		Code:         in.Code,
		LoadID:       in.LoadID,
		InvoiceCount: in.InvoiceCount,
		VolumeCount:  in.VolumeCount,
		GrossWeight:  in.GrossWeight,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPalletResponse(created))
}

// GetPallet godoc
// @Summary      Consultar palete com as posições que o guardam
// @Tags         storage
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do palete"
// @Success      200  {object}  dto.PalletResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pallets/{id} [get]
func (h *StorageHandler) GetPallet(c *fiber.Ctx) error {
	pallet, err := h.ledger.GetPallet(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToPalletResponse(pallet))
}

// Suggest godoc
// @Summary      Sugerir posições para um palete
// @Tags         storage
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID do palete"
// @Param        level  query  int     false  "nível do armazém (-1 = todos)"
// @Success      200  {array}  dto.SuggestionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pallets/{id}/suggestions [get]
func (h *StorageHandler) Suggest(c *fiber.Ctx) error {
	level := c.QueryInt("level", -1)
	ranked, err := h.confirmation.Suggest(c.Context(), c.Params("id"), level)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.SuggestionResponse, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, dto.ToSuggestionResponse(s))
	}
	return c.JSON(out)
}

// StartAddressing godoc
// @Summary      Abrir protocolo de endereçamento
// @Description  Fixa a sugestão de melhor rank como alvo; nada é ocupado até
//
//	as duas bipagens confirmarem.
//
// @Tags         confirmations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartConfirmationRequest  true  "pallet_id, level"
// @Success      201  {object}  dto.ConfirmationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/confirmations/addressing [post]
func (h *StorageHandler) StartAddressing(c *fiber.Ctx) error {
	var in dto.StartConfirmationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	conf, err := h.confirmation.StartAddressing(c.Context(), in.PalletID, GetUserID(c), in.Level)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToConfirmationResponse(conf))
}

// StartPicking godoc
// @Summary      Abrir protocolo de expedição
// @Tags         confirmations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartConfirmationRequest  true  "pallet_id"
// @Success      201  {object}  dto.ConfirmationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/confirmations/picking [post]
func (h *StorageHandler) StartPicking(c *fiber.Ctx) error {
	var in dto.StartConfirmationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	conf, err := h.confirmation.StartPicking(c.Context(), in.PalletID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToConfirmationResponse(conf))
}

// ScanObject godoc
// @Summary      Primeira bipagem: o palete
// @Description  Erro de bipagem não avança o estado; sem limite de tentativas.
// @Tags         confirmations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID do protocolo"
// @Param        body  body  dto.ConfirmScanRequest  true  "code"
// @Success      200  {object}  dto.ConfirmationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/confirmations/{id}/scan-object [post]
func (h *StorageHandler) ScanObject(c *fiber.Ctx) error {
	var in dto.ConfirmScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	conf, err := h.confirmation.ScanObject(c.Params("id"), in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToConfirmationResponse(conf))
}

// ScanLocation godoc
// @Summary      Segunda bipagem: a posição
// @Description  Com as duas bipagens confirmadas acontece exatamente uma
//
//	mutação no ledger: ocupação do conjunto inteiro (endereçamento)
//	ou liberação + expedição do palete (expedição).
//
// @Tags         confirmations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID do protocolo"
// @Param        body  body  dto.ConfirmScanRequest  true  "code"
// @Success      200  {object}  dto.ConfirmationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/confirmations/{id}/scan-location [post]
func (h *StorageHandler) ScanLocation(c *fiber.Ctx) error {
	var in dto.ConfirmScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	conf, err := h.confirmation.ScanLocation(c.Context(), c.Params("id"), in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToConfirmationResponse(conf))
}

// Abandon godoc
// @Summary      Abandonar o protocolo
// @Description  Descarta a instância sem nenhuma mutação no ledger.
// @Tags         confirmations
// @Security     Bearer
// @Param        id  path  string  true  "ID do protocolo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/confirmations/{id} [delete]
func (h *StorageHandler) Abandon(c *fiber.Ctx) error {
	if err := h.confirmation.Abandon(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetConfirmation godoc
// @Summary      Consultar o protocolo ativo
// @Tags         confirmations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do protocolo"
// @Success      200  {object}  dto.ConfirmationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/confirmations/{id} [get]
func (h *StorageHandler) GetConfirmation(c *fiber.Ctx) error {
	conf, err := h.confirmation.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToConfirmationResponse(conf))
}
