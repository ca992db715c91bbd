package controller

import (
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/utils"
	"wellness-planner/modules/mood/dto"
	"wellness-planner/modules/mood/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type MoodController struct {
	service service.MoodService
	controller.BaseController
}

func NewMoodController(service service.MoodService) *MoodController {
	return &MoodController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *MoodController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Upsert records or overwrites the day's mood
// @Summary Log a mood entry
// @Description Saves the mood rating for a day. A second write for the same day overwrites the first.
// @Tags Mood
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpsertMoodRequest true "Mood payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /moods [put]
func (c *MoodController) Upsert(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.UpsertMoodRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	entry, appErr := c.service.Upsert(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, entry, "Mood entry saved successfully")
}

// GetByDate returns the mood entry for one day
// @Summary Get a mood entry
// @Tags Mood
// @Security BearerAuth
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.AppError
// @Router /moods/{date} [get]
func (c *MoodController) GetByDate(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	entry, appErr := c.service.GetByDate(ctx.Request().Context(), userID, ctx.Param("date"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, entry, "Mood entry retrieved successfully")
}

// ListMonth returns all mood entries in a month
// @Summary List mood entries for a month
// @Tags Mood
// @Security BearerAuth
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /moods [get]
func (c *MoodController) ListMonth(ctx echo.Context) error {
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

	entries, appErr := c.service.ListMonth(ctx.Request().Context(), userID, year, month)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, entries, "Mood entries retrieved successfully")
}

// Delete removes a mood entry
// @Summary Delete a mood entry
// @Tags Mood
// @Security BearerAuth
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /moods/{date} [delete]
func (c *MoodController) Delete(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, ctx.Param("date")); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Mood entry deleted successfully")
}
