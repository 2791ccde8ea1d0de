package handlers

import (
	"net/http"
	"strings"

	"clubops/internal/common"
	"clubops/internal/models"
	"clubops/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PaymentMethodHandlers handles payment method HTTP requests. Methods
// are a small lookup table, so handlers talk to the repository directly.
type PaymentMethodHandlers struct {
	methodRepo repositories.PaymentMethodRepository
}

// NewPaymentMethodHandlers creates a new payment method handlers instance
func NewPaymentMethodHandlers(methodRepo repositories.PaymentMethodRepository) *PaymentMethodHandlers {
	return &PaymentMethodHandlers{methodRepo: methodRepo}
}

// CreatePaymentMethodRequest represents the payment method creation payload
type CreatePaymentMethodRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreatePaymentMethod handles POST /payment-methods
func (h *PaymentMethodHandlers) CreatePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreatePaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	method := &models.PaymentMethod{
		ID:   uuid.New(),
		Name: strings.TrimSpace(req.Name),
	}
	if err := h.methodRepo.Create(ctx, method); err != nil {
		return common.SendServerError(c, "Failed to create payment method")
	}

	return c.JSON(http.StatusCreated, method)
}

// ListPaymentMethods handles GET /payment-methods
func (h *PaymentMethodHandlers) ListPaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()

	methods, err := h.methodRepo.List(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to list payment methods")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payment_methods": methods,
	})
}

// DeletePaymentMethod handles DELETE /payment-methods/:id
func (h *PaymentMethodHandlers) DeletePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()

	methodID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if _, err := h.methodRepo.GetByID(ctx, methodID); err != nil {
		return common.SendNotFoundError(c, "payment method")
	}
	if err := h.methodRepo.Delete(ctx, methodID); err != nil {
		return common.SendServerError(c, "Failed to delete payment method")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Payment method deleted successfully",
	})
}
