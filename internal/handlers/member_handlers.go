package handlers

import (
	"net/http"

	"clubops/internal/common"
	"clubops/internal/services"

	"github.com/labstack/echo/v4"
)

// MemberHandlers handles member-related HTTP requests
type MemberHandlers struct {
	memberService services.MemberService
}

// NewMemberHandlers creates a new member handlers instance
func NewMemberHandlers(memberService services.MemberService) *MemberHandlers {
	return &MemberHandlers{memberService: memberService}
}

// CreateMember handles POST /members
func (h *MemberHandlers) CreateMember(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateMemberRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	member, err := h.memberService.Create(ctx, &req)
	if err != nil {
		return common.SendServerError(c, "Failed to create member")
	}

	return c.JSON(http.StatusCreated, member)
}

// GetMember handles GET /members/:id
func (h *MemberHandlers) GetMember(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	member, err := h.memberService.GetByID(ctx, memberID)
	if err != nil {
		return common.SendNotFoundError(c, "member")
	}

	return c.JSON(http.StatusOK, member)
}

// UpdateMember handles PUT /members/:id
func (h *MemberHandlers) UpdateMember(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req services.UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	req.ID = memberID
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}

	if err := h.memberService.Update(ctx, &req); err != nil {
		return common.SendServerError(c, "Failed to update member")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Member updated successfully",
	})
}

// DeleteMember handles DELETE /members/:id
func (h *MemberHandlers) DeleteMember(c echo.Context) error {
	ctx := c.Request().Context()

	memberID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.memberService.Delete(ctx, memberID); err != nil {
		return common.SendServerError(c, "Failed to delete member")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Member deleted successfully",
	})
}

// ListMembersRequest represents query parameters for listing members
type ListMembersRequest struct {
	Query  string `query:"q"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListMembers handles GET /members, with optional name search via ?q=
func (h *MemberHandlers) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListMembersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	req.Limit, req.Offset = common.ValidatePaginationParams(req.Limit, req.Offset)

	var (
		members interface{}
		err     error
	)
	if req.Query != "" {
		members, err = h.memberService.Search(ctx, req.Query, req.Limit, req.Offset)
	} else {
		members, err = h.memberService.List(ctx, req.Limit, req.Offset)
	}
	if err != nil {
		return common.SendServerError(c, "Failed to list members")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
		"limit":   req.Limit,
		"offset":  req.Offset,
	})
}
