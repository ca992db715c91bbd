package controller

import (
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/utils"
	"wellness-planner/modules/wellness/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type WellnessController struct {
	service service.WellnessService
	controller.BaseController
}

func NewWellnessController(service service.WellnessService) *WellnessController {
	return &WellnessController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *WellnessController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// MonthlySummary returns the month's wellness aggregate
// @Summary Monthly wellness summary
// @Description Average mood, rating distribution, best and worst days, streaks and event completion for a month
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /wellness/summary [get]
func (c *WellnessController) MonthlySummary(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	year := int(utils.ToNumberWithDefault(ctx.QueryParam("year"), 0))
	month := int(utils.ToNumberWithDefault(ctx.QueryParam("month"), 0))
	if year == 0 || month == 0 {
		now := time.Now().UTC()
		year, month = now.Year(), int(now.Month())
	}

	summary, appErr := c.service.MonthlySummary(ctx.Request().Context(), userID, year, month)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, summary, "Wellness summary retrieved successfully")
}

// CategoryImpact compares mood on days with and without each category
// @Summary Category mood impact
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param days query int false "Trailing window in days (default 90)"
// @Success 200 {object} map[string]interface{}
// @Router /wellness/category-impact [get]
func (c *WellnessController) CategoryImpact(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	days := int(utils.ToNumberWithDefault(ctx.QueryParam("days"), 0))
	impacts, appErr := c.service.CategoryImpact(ctx.Request().Context(), userID, days)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, impacts, "Category impact retrieved successfully")
}

// Productivity scores hours of the day by completed work
// @Summary Hourly productivity
// @Tags Wellness
// @Security BearerAuth
// @Produce json
// @Param days query int false "Trailing window in days (default 30)"
// @Success 200 {object} map[string]interface{}
// @Router /wellness/productivity [get]
func (c *WellnessController) Productivity(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	days := int(utils.ToNumberWithDefault(ctx.QueryParam("days"), 0))
	resp, appErr := c.service.Productivity(ctx.Request().Context(), userID, days)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Productivity retrieved successfully")
}
