package handlers

import (
	"errors"
	"net/http"

	"clubops/internal/common"
	"clubops/internal/dates"
	"clubops/internal/lifecycle"
	"clubops/internal/money"
	"clubops/internal/services"

	"github.com/labstack/echo/v4"
)

// SubscriptionHandlers handles HTTP requests for subscriptions
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
}

// NewSubscriptionHandlers creates a new subscription handlers instance
func NewSubscriptionHandlers(subscriptionService services.SubscriptionService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		subscriptionService: subscriptionService,
	}
}

// domainError writes the response for a lifecycle rule violation and
// reports whether err was one. Validation problems are 400, state
// conflicts 409.
func domainError(c echo.Context, err error) (error, bool) {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidDuration):
		return common.SendValidationError(c, "requested_days", err.Error()), true
	case errors.Is(err, lifecycle.ErrInvalidAmount):
		return common.SendValidationError(c, "amount", err.Error()), true
	case lifecycle.IsDomainError(err):
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", err.Error(), nil)), true
	default:
		return nil, false
	}
}

// CreateSubscriptionRequest represents the subscription creation payload
type CreateSubscriptionRequest struct {
	MemberID  string `json:"member_id" validate:"required"`
	PlanID    string `json:"plan_id" validate:"required"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, defaults to today
}

// CreateSubscription handles POST /subscriptions
func (h *SubscriptionHandlers) CreateSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	memberID, err := common.ValidateUUID(req.MemberID, "member_id")
	if err != nil {
		return common.SendValidationError(c, "member_id", err.Error())
	}
	planID, err := common.ValidateUUID(req.PlanID, "plan_id")
	if err != nil {
		return common.SendValidationError(c, "plan_id", err.Error())
	}

	var startDate dates.Date
	if req.StartDate != "" {
		startDate, err = dates.Parse(req.StartDate)
		if err != nil {
			return common.SendValidationError(c, "start_date", "expected YYYY-MM-DD")
		}
	}

	view, err := h.subscriptionService.Create(ctx, &services.CreateSubscriptionRequest{
		MemberID:  memberID,
		PlanID:    planID,
		StartDate: startDate,
	})
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to create subscription")
	}

	return c.JSON(http.StatusCreated, view)
}

// ListSubscriptionsRequest represents query parameters for listing subscriptions
type ListSubscriptionsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListSubscriptions handles GET /subscriptions
func (h *SubscriptionHandlers) ListSubscriptions(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListSubscriptionsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	views, err := h.subscriptionService.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list subscriptions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": views,
		"limit":         req.Limit,
		"offset":        req.Offset,
	})
}

// GetSubscription handles GET /subscriptions/:id
func (h *SubscriptionHandlers) GetSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	view, err := h.subscriptionService.GetByID(ctx, subscriptionID)
	if err != nil {
		return common.SendNotFoundError(c, "subscription")
	}

	return c.JSON(http.StatusOK, view)
}

// ListMemberSubscriptions handles GET /members/:id/subscriptions
func (h *SubscriptionHandlers) ListMemberSubscriptions(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	views, err := h.subscriptionService.ListByMember(ctx, memberID)
	if err != nil {
		return common.SendServerError(c, "Failed to list member subscriptions")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"subscriptions": views,
	})
}

// RecordPaymentRequest represents the payment payload
type RecordPaymentRequest struct {
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency"`
	MethodID string `json:"method_id" validate:"required"`
}

// RecordPayment handles POST /subscriptions/:id/payments
func (h *SubscriptionHandlers) RecordPayment(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	methodID, err := common.ValidateUUID(req.MethodID, "method_id")
	if err != nil {
		return common.SendValidationError(c, "method_id", err.Error())
	}

	currency := req.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	amount, err := money.Parse(req.Amount, currency)
	if err != nil {
		return common.SendValidationError(c, "amount", err.Error())
	}

	payment, err := h.subscriptionService.RecordPayment(ctx, subscriptionID, amount, methodID)
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to record payment")
	}

	return c.JSON(http.StatusCreated, payment)
}

// RequestFreezeRequest represents the freeze payload
type RequestFreezeRequest struct {
	RequestedDays int    `json:"requested_days" validate:"required"`
	StartDate     string `json:"start_date"` // YYYY-MM-DD, defaults to today
}

// RequestFreeze handles POST /subscriptions/:id/freezes
func (h *SubscriptionHandlers) RequestFreeze(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req RequestFreezeRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	var startDate dates.Date
	if req.StartDate != "" {
		startDate, err = dates.Parse(req.StartDate)
		if err != nil {
			return common.SendValidationError(c, "start_date", "expected YYYY-MM-DD")
		}
	}

	freeze, err := h.subscriptionService.RequestFreeze(ctx, subscriptionID, req.RequestedDays, startDate)
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to request freeze")
	}

	return c.JSON(http.StatusCreated, freeze)
}

// CancelFreeze handles DELETE /subscriptions/:id/freezes/:freezeId
func (h *SubscriptionHandlers) CancelFreeze(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}
	freezeID, err := common.ValidateUUID(c.Param("freezeId"), "freezeId")
	if err != nil {
		return common.SendValidationError(c, "freezeId", err.Error())
	}

	view, err := h.subscriptionService.CancelFreeze(ctx, subscriptionID, freezeID)
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to cancel freeze")
	}

	return c.JSON(http.StatusOK, view)
}

// CancelSubscription handles POST /subscriptions/:id/cancel
func (h *SubscriptionHandlers) CancelSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	view, err := h.subscriptionService.Cancel(ctx, subscriptionID)
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to cancel subscription")
	}

	return c.JSON(http.StatusOK, view)
}

// RenewSubscription handles POST /subscriptions/:id/renew
func (h *SubscriptionHandlers) RenewSubscription(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	view, err := h.subscriptionService.Renew(ctx, subscriptionID)
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to renew subscription")
	}

	return c.JSON(http.StatusCreated, view)
}

// CheckIn handles POST /subscriptions/:id/check-in
func (h *SubscriptionHandlers) CheckIn(c echo.Context) error {
	ctx := c.Request().Context()

	subscriptionID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	view, err := h.subscriptionService.CheckIn(ctx, subscriptionID)
	if err != nil {
		if resp, ok := domainError(c, err); ok {
			return resp
		}
		return common.SendServerError(c, "Failed to record check-in")
	}

	return c.JSON(http.StatusOK, view)
}
