package controller

import (
	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/utils"
	"wellness-planner/modules/category/dto"
	"wellness-planner/modules/category/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CategoryController struct {
	service service.CategoryService
	controller.BaseController
}

func NewCategoryController(service service.CategoryService) *CategoryController {
	return &CategoryController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *CategoryController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// List returns system defaults plus the user's own categories
// @Summary List categories
// @Description Returns system default categories together with the user's own
// @Tags Category
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /categories [get]
func (c *CategoryController) List(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	categories, appErr := c.service.List(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, categories, "Categories retrieved successfully")
}

// Get returns a single category visible to the user
// @Summary Get a category
// @Tags Category
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.AppError
// @Router /categories/{id} [get]
func (c *CategoryController) Get(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid category ID", nil)
	}

	category, appErr := c.service.Get(ctx.Request().Context(), userID, id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, category, "Category retrieved successfully")
}

// Create adds a user-owned category
// @Summary Create a category
// @Tags Category
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /categories [post]
func (c *CategoryController) Create(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.CreateCategoryRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	category, appErr := c.service.Create(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, category, "Category created successfully")
}

// Update modifies a user-owned category
// @Summary Update a category
// @Tags Category
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /categories/{id} [put]
func (c *CategoryController) Update(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid category ID", nil)
	}

	req := new(dto.UpdateCategoryRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	category, appErr := c.service.Update(ctx.Request().Context(), userID, id, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, category, "Category updated successfully")
}

// Delete soft deletes a user-owned category
// @Summary Delete a category
// @Description Soft deletes a user-owned category. Events keep their reference.
// @Tags Category
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /categories/{id} [delete]
func (c *CategoryController) Delete(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid category ID", nil)
	}

	if appErr := c.service.Delete(ctx.Request().Context(), userID, id); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Category deleted successfully")
}
