package handlers

import (
	"net/http"

	"clubops/internal/common"
	"clubops/internal/services"

	"github.com/labstack/echo/v4"
)

// PlanHandlers handles subscription plan HTTP requests
type PlanHandlers struct {
	planService services.PlanService
}

// NewPlanHandlers creates a new plan handlers instance
func NewPlanHandlers(planService services.PlanService) *PlanHandlers {
	return &PlanHandlers{planService: planService}
}

// CreatePlan handles POST /plans
func (h *PlanHandlers) CreatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreatePlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	plan, err := h.planService.Create(ctx, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, plan)
}

// GetPlan handles GET /plans/:id
func (h *PlanHandlers) GetPlan(c echo.Context) error {
	ctx := c.Request().Context()

	planID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	plan, err := h.planService.GetByID(ctx, planID)
	if err != nil {
		return common.SendNotFoundError(c, "plan")
	}

	return c.JSON(http.StatusOK, plan)
}

// UpdatePlan handles PUT /plans/:id
func (h *PlanHandlers) UpdatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	planID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req services.UpdatePlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.ID = planID

	if err := h.planService.Update(ctx, &req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Plan updated successfully",
	})
}

// DeletePlan handles DELETE /plans/:id
func (h *PlanHandlers) DeletePlan(c echo.Context) error {
	ctx := c.Request().Context()

	planID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.planService.Delete(ctx, planID); err != nil {
		return common.SendServerError(c, "Failed to delete plan")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Plan deleted successfully",
	})
}

// ListPlansRequest represents query parameters for listing plans
type ListPlansRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPlans handles GET /plans
func (h *PlanHandlers) ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListPlansRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	plans, err := h.planService.List(ctx, req.Limit, req.Offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list plans")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"plans":  plans,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}
