package controller

import (
	"context"
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/params"
	"wellness-planner/core/utils"
	"wellness-planner/modules/event/dto"
	"wellness-planner/modules/event/entity"
	"wellness-planner/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EventController struct {
	service service.EventService
	controller.BaseController
}

func NewEventController(service service.EventService) *EventController {
	return &EventController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *EventController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Create adds an event
// @Summary Create an event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /events [post]
func (c *EventController) Create(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	event, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event created successfully")
}

// Get returns a single event
// @Summary Get an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [get]
func (c *EventController) Get(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID", nil)
	}

	event, appErr := c.service.Get(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event retrieved successfully")
}

// List returns events in a range with optional filters
// @Summary List events
// @Description Lists events intersecting a time range, with optional category, status and priority filters
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param from query string false "Range start (RFC3339)"
// @Param to query string false "Range end (RFC3339)"
// @Param category_id query string false "Category filter"
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /events [get]
func (c *EventController) List(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	filter := dto.ListEventsFilter{
		Status:   ctx.QueryParam("status"),
		Priority: ctx.QueryParam("priority"),
	}
	if raw := ctx.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid 'from' timestamp", nil)
		}
		filter.From = from
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid 'to' timestamp", nil)
		}
		filter.To = to
	}
	if raw := ctx.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid category ID", nil)
		}
		filter.CategoryID = &categoryID
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.List(ctx.Request().Context(), userID, filter, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Events retrieved successfully")
}

// MonthView returns the month's events grouped by day
// @Summary Month view
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /events/month [get]
func (c *EventController) MonthView(ctx echo.Context) error {
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

	view, appErr := c.service.MonthView(ctx.Request().Context(), userID, year, month)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, view, "Month view retrieved successfully")
}

// CheckConflicts reports scheduled events overlapping a candidate slot
// @Summary Check conflicts
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param start query string true "Slot start (RFC3339)"
// @Param end query string true "Slot end (RFC3339)"
// @Param exclude_id query string false "Event ID to ignore"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /events/conflicts [get]
func (c *EventController) CheckConflicts(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	start, err := time.Parse(time.RFC3339, ctx.QueryParam("start"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid 'start' timestamp", nil)
	}
	end, err := time.Parse(time.RFC3339, ctx.QueryParam("end"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid 'end' timestamp", nil)
	}

	var excludeID *uuid.UUID
	if raw := ctx.QueryParam("exclude_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "Invalid exclude ID", nil)
		}
		excludeID = &id
	}

	result, appErr := c.service.CheckConflicts(ctx.Request().Context(), userID, start, end, excludeID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Conflict check completed")
}

// Update modifies a scheduled event
// @Summary Update an event
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [put]
func (c *EventController) Update(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID", nil)
	}

	req := new(dto.UpdateEventRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	event, appErr := c.service.Update(ctx.Request().Context(), userID, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event updated successfully")
}

// Complete marks a scheduled event completed
// @Summary Complete an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/complete [put]
func (c *EventController) Complete(ctx echo.Context) error {
	return c.transition(ctx, c.service.Complete, "Event completed successfully")
}

// Cancel marks a scheduled event cancelled
// @Summary Cancel an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /events/{id}/cancel [put]
func (c *EventController) Cancel(ctx echo.Context) error {
	return c.transition(ctx, c.service.Cancel, "Event cancelled successfully")
}

// Delete soft deletes an event
// @Summary Delete an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.AppError
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID", nil)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// ListDeleted lists soft-deleted events
// @Summary List deleted events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /events/trash [get]
func (c *EventController) ListDeleted(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	queryParams := params.NewQueryParams(ctx)
	result, appErr := c.service.ListDeleted(ctx.Request().Context(), userID, *queryParams)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Deleted events retrieved successfully")
}

// Restore revives a soft-deleted event
// @Summary Restore a deleted event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.AppError
// @Router /events/{id}/restore [put]
func (c *EventController) Restore(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID", nil)
	}

	event, appErr := c.service.Restore(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, "Event restored successfully")
}

func (c *EventController) transition(
	ctx echo.Context,
	fn func(context.Context, uuid.UUID, uuid.UUID) (*entity.Event, *errors.AppError),
	message string,
) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID", nil)
	}

	event, appErr := fn(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, event, message)
}
