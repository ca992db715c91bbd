package controller

import (
	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/utils"
	"wellness-planner/modules/assistant/dto"
	"wellness-planner/modules/assistant/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AssistantController struct {
	service service.AssistantService
	controller.BaseController
}

func NewAssistantController(service service.AssistantService) *AssistantController {
	return &AssistantController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *AssistantController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// ParseEvent extracts an event draft from free text
// @Summary Parse natural language into an event draft
// @Description Returns a draft event; the source field reports whether the model or the heuristic fallback produced it
// @Tags Assistant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ParseEventRequest true "Free text"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /assistant/parse-event [post]
func (c *AssistantController) ParseEvent(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.ParseEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	parsed, appErr := c.service.ParseEvent(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, parsed, "Event parsed successfully")
}

// ValidateEvent sanity checks an event draft
// @Summary Validate an event draft
// @Description Approve-by-default validation; model failures approve the event untouched
// @Tags Assistant
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ValidateEventRequest true "Event draft"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /assistant/validate-event [post]
func (c *AssistantController) ValidateEvent(ctx echo.Context) error {
	if _, err := c.getUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.ValidateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.ValidateEvent(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Event validated successfully")
}
