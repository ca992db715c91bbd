package controller

import (
	"context"

	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/utils"
	"wellness-planner/modules/recommendation/dto"
	"wellness-planner/modules/recommendation/entity"
	"wellness-planner/modules/recommendation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RecommendationController struct {
	service service.RecommendationService
	controller.BaseController
}

func NewRecommendationController(service service.RecommendationService) *RecommendationController {
	return &RecommendationController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *RecommendationController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Generate runs the suggestion heuristics for a day
// @Summary Generate suggestions
// @Description Generates schedule suggestions for a day. Days that already have suggestions return an empty list.
// @Tags Recommendation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest false "Target date, defaults to today"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /suggestions/generate [post]
func (c *RecommendationController) Generate(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.GenerateRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	suggestions, appErr := c.service.Generate(ctx.Request().Context(), userID, req.Date)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, suggestions, "Suggestions generated successfully")
}

// List returns the user's suggestions, optionally filtered by status
// @Summary List suggestions
// @Tags Recommendation
// @Security BearerAuth
// @Produce json
// @Param status query string false "Status filter (pending, accepted, rejected, postponed, expired)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /suggestions [get]
func (c *RecommendationController) List(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	suggestions, appErr := c.service.List(ctx.Request().Context(), userID, ctx.QueryParam("status"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, suggestions, "Suggestions retrieved successfully")
}

// Accept accepts a pending suggestion
// @Summary Accept a suggestion
// @Tags Recommendation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /suggestions/{id}/accept [put]
func (c *RecommendationController) Accept(ctx echo.Context) error {
	return c.transition(ctx, c.service.Accept, "Suggestion accepted")
}

// Reject rejects a pending suggestion
// @Summary Reject a suggestion
// @Tags Recommendation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /suggestions/{id}/reject [put]
func (c *RecommendationController) Reject(ctx echo.Context) error {
	return c.transition(ctx, c.service.Reject, "Suggestion rejected")
}

// Postpone moves a pending suggestion to the next day
// @Summary Postpone a suggestion
// @Tags Recommendation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Suggestion ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /suggestions/{id}/postpone [put]
func (c *RecommendationController) Postpone(ctx echo.Context) error {
	return c.transition(ctx, c.service.Postpone, "Suggestion postponed")
}

// SubmitFeedback records feedback on an acted-on suggestion, replacing
// the stub written on accept
// @Summary Submit suggestion feedback
// @Tags Recommendation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Suggestion ID"
// @Param request body dto.FeedbackRequest true "Feedback payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /suggestions/{id}/feedback [post]
func (c *RecommendationController) SubmitFeedback(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid suggestion ID", nil)
	}

	req := new(dto.FeedbackRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	feedback, appErr := c.service.SubmitFeedback(ctx.Request().Context(), userID, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, feedback, "Feedback recorded successfully")
}

// FeedbackStats aggregates feedback per suggestion type
// @Summary Feedback statistics
// @Tags Recommendation
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /suggestions/feedback-stats [get]
func (c *RecommendationController) FeedbackStats(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	stats, appErr := c.service.FeedbackStats(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, stats, "Feedback stats retrieved successfully")
}

func (c *RecommendationController) transition(
	ctx echo.Context,
	fn func(context.Context, uuid.UUID, uuid.UUID) (*entity.ScheduleSuggestion, *errors.AppError),
	message string,
) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid suggestion ID", nil)
	}

	suggestion, appErr := fn(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, suggestion, message)
}
