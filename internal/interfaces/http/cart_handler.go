package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/logfarma/armazem-api/internal/application/admission"
	"github.com/logfarma/armazem-api/internal/application/cart"
	"github.com/logfarma/armazem-api/internal/application/dto"
)

// CartHandler carros de bipagem: criação, bipagem de notas e ciclo de vida.
type CartHandler struct {
	lifecycle *cart.LifecycleUseCase
	admit     *admission.AdmitScanUseCase
}

// NewCartHandler constrói o handler.
func NewCartHandler(lifecycle *cart.LifecycleUseCase, admit *admission.AdmitScanUseCase) *CartHandler {
	return &CartHandler{lifecycle: lifecycle, admit: admit}
}

// Create godoc
// @Summary      Criar carro de bipagem
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCartRequest  true  "name, flow (embalagem|wms)"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/carts [post]
func (h *CartHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCartRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	created, err := h.lifecycle.CreateCart(c.Context(), in.Name, in.Flow, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCartResponse(created))
}

// List godoc
// @Summary      Listar carros
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo de itens (padrão 20)"
// @Param        offset  query  int  false  "deslocamento"
// @Success      200  {array}  dto.CartResponse
// @Router       /api/carts [get]
func (h *CartHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	page.DefaultPage()
	carts, err := h.lifecycle.ListCarts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CartResponse, 0, len(carts))
	for _, ct := range carts {
		out = append(out, dto.ToCartResponse(ct))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Consultar carro com as bipagens
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do carro"
// @Success      200  {object}  dto.CartResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{id} [get]
func (h *CartHandler) GetByID(c *fiber.Ctx) error {
	found, err := h.lifecycle.GetCart(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToCartResponse(found))
}

// Scan godoc
// @Summary      Bipar uma nota contra o carro
// @Description  Decodifica o código, valida contra o carro, o ledger global e o
//
//	recebimento, e devolve o resultado com o estado novo do carro.
//	Rejeições de validação são gravadas no carro para auditoria.
//
// @Tags         carts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID do carro"
// @Param        body  body  dto.ScanRequest  true  "code"
// @Success      200   {object}  dto.ScanResultResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/scans [post]
func (h *CartHandler) Scan(c *fiber.Ctx) error {
	var in dto.ScanRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code é obrigatório"})
	}
	cartID := c.Params("id")
	result, err := h.admit.AdmitScan(c.Context(), cartID, GetUserID(c), in.Code)
	if err != nil {
		return respondError(c, err)
	}

	current, err := h.lifecycle.GetCart(c.Context(), cartID)
	if err != nil {
		return respondError(c, err)
	}
	out := dto.ScanResultResponse{
		Outcome: string(result.Outcome),
		Cart:    dto.ToCartResponse(current),
	}
	if result.Reason != nil {
		out.Reason = result.Reason.Error()
	}
	if result.Entry != nil {
		entry := dto.ToEntryResponse(result.Entry)
		out.Entry = &entry
	}
	if result.Conflict != nil {
		out.ConflictCartID = result.Conflict.CartID
		admittedAt := result.Conflict.AdmittedAt
		out.ConflictAdmittedAt = &admittedAt
	}
	return c.JSON(out)
}

// RemoveEntry godoc
// @Summary      Remover uma bipagem do carro
// @Description  Só em carro ainda em bipagem. Nota admitida volta a poder ser
//
//	bipada em qualquer carro.
//
// @Tags         carts
// @Security     Bearer
// @Param        id       path  string  true  "ID do carro"
// @Param        entryId  path  string  true  "ID da bipagem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/entries/{entryId} [delete]
func (h *CartHandler) RemoveEntry(c *fiber.Ctx) error {
	if err := h.lifecycle.RemoveEntry(c.Context(), c.Params("id"), c.Params("entryId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkEntryRead godoc
// @Summary      Marcar bipagem como revisada
// @Tags         carts
// @Security     Bearer
// @Param        id       path  string  true  "ID do carro"
// @Param        entryId  path  string  true  "ID da bipagem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/entries/{entryId}/read [post]
func (h *CartHandler) MarkEntryRead(c *fiber.Ctx) error {
	if err := h.lifecycle.MarkEntryRead(c.Context(), c.Params("entryId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Finalize godoc
// @Summary      Finalizar a bipagem do carro
// @Description  Exige ao menos uma nota válida e nenhuma pendente; caso
//
//	contrário devolve 409 com a contagem de pendências.
//
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do carro"
// @Success      200  {object}  dto.CartResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/finalize [post]
func (h *CartHandler) Finalize(c *fiber.Ctx) error {
	finalized, err := h.lifecycle.Finalize(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToCartResponse(finalized))
}

// StartPacking godoc
// @Summary      Travar o carro para embalagem
// @Description  Trava o carro (sem novas bipagens), cria o carro sucessor no
//
//	mesmo fluxo e abre a conferência central, em uma transação.
//	Devolve o par (travado, sucessor).
//
// @Tags         carts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do carro"
// @Success      200  {object}  dto.StartPackingResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{id}/start-packing [post]
func (h *CartHandler) StartPacking(c *fiber.Ctx) error {
	locked, successor, err := h.lifecycle.StartPacking(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StartPackingResponse{
		Locked:    dto.ToCartResponse(locked),
		Successor: dto.ToCartResponse(successor),
	})
}
