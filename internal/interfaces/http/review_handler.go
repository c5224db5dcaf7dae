package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/logfarma/armazem-api/internal/application/cart"
	"github.com/logfarma/armazem-api/internal/application/dto"
)

// ReviewHandler conferência central do carro embalado (restrito a conferentes).
type ReviewHandler struct {
	uc *cart.ReviewUseCase
}

// NewReviewHandler constrói o handler.
func NewReviewHandler(uc *cart.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// GetByCart godoc
// @Summary      Consultar a conferência do carro
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        cartId  path  string  true  "ID do carro"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/carts/{cartId}/review [get]
func (h *ReviewHandler) GetByCart(c *fiber.Ctx) error {
	review, err := h.uc.GetByCart(c.Context(), c.Params("cartId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToReviewResponse(review))
}

// ToDivergenceReview godoc
// @Summary      Mover a conferência para análise de divergências
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        cartId  path  string  true  "ID do carro"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{cartId}/review/divergence [post]
func (h *ReviewHandler) ToDivergenceReview(c *fiber.Ctx) error {
	review, err := h.uc.ToDivergenceReview(c.Context(), c.Params("cartId"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToReviewResponse(review))
}

// ToAwaitingDispatch godoc
// @Summary      Liberar o carro para coleta de números de lançamento
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        cartId  path  string  true  "ID do carro"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{cartId}/review/await-dispatch [post]
func (h *ReviewHandler) ToAwaitingDispatch(c *fiber.Ctx) error {
	review, err := h.uc.ToAwaitingDispatch(c.Context(), c.Params("cartId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToReviewResponse(review))
}

// AddDispatchNumber godoc
// @Summary      Coletar um número de lançamento
// @Description  Exatamente 6 dígitos, único no carro; só na etapa de
//
//	aguardando lançamento.
//
// @Tags         reviews
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        cartId  path  string  true  "ID do carro"
// @Param        body    body  dto.DispatchNumberRequest  true  "number"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{cartId}/review/dispatch-numbers [post]
func (h *ReviewHandler) AddDispatchNumber(c *fiber.Ctx) error {
	var in dto.DispatchNumberRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	review, err := h.uc.AddDispatchNumber(c.Context(), c.Params("cartId"), in.Number)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToReviewResponse(review))
}

// Dispatch godoc
// @Summary      Lançar o carro
// @Description  Arquiva as notas admitidas sob cada número de lançamento e
//
//	conclui o carro, em uma transação.
//
// @Tags         reviews
// @Security     Bearer
// @Produce      json
// @Param        cartId  path  string  true  "ID do carro"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/carts/{cartId}/review/dispatch [post]
func (h *ReviewHandler) Dispatch(c *fiber.Ctx) error {
	review, err := h.uc.Dispatch(c.Context(), c.Params("cartId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToReviewResponse(review))
}
