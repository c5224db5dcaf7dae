package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/logfarma/armazem-api/internal/application/dto"
	"github.com/logfarma/armazem-api/internal/domain"
)

// respondError traduz erros de domínio para o status e o corpo HTTP.
// Mapeamento único para que todos os handlers respondam igual.
func respondError(c *fiber.Ctx, err error) error {
	var locked *domain.LockedCartError
	if errors.As(err, &locked) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CART_LOCKED", Message: locked.Error()})
	}
	var transition *domain.InvalidTransitionError
	if errors.As(err, &transition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: transition.Error()})
	}
	var mismatch *domain.ScanMismatchError
	if errors.As(err, &mismatch) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCAN_MISMATCH", Message: mismatch.Error()})
	}
	var admitted *domain.AlreadyAdmittedError
	if errors.As(err, &admitted) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_ADMITTED", Message: admitted.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDispatchNumber):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciais inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado"})
	case errors.Is(err, domain.ErrLoginAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOGIN_EXISTS", Message: "o login já está registrado"})
	case errors.Is(err, domain.ErrPositionUnavailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "POSITION_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrPalletNotStored):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PALLET_NOT_STORED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
