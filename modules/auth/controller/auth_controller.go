package controller

import (
	"net/http"
	"strings"

	"wellness-planner/core/constants"
	"wellness-planner/core/controller"
	"wellness-planner/core/errors"
	"wellness-planner/core/utils"
	"wellness-planner/modules/auth/dto"
	"wellness-planner/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(service service.AuthServiceInterface) *AuthController {
	return &AuthController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// getUserIDFromContext extracts user ID from JWT context
func (c *AuthController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// bearerToken strips the Authorization header prefix
func bearerToken(ctx echo.Context) string {
	header := ctx.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Register creates an account
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	req := new(dto.RegisterRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	tokens, appErr := c.service.Register(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, tokens, "Account created successfully")
}

// Login authenticates with email or username and password
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	tokens, appErr := c.service.Login(ctx.Request().Context(), req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, tokens, "Logged in successfully")
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx echo.Context) error {
	req := new(dto.RefreshTokenRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	tokens, appErr := c.service.RefreshToken(ctx.Request().Context(), req.RefreshToken)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, tokens, "Tokens refreshed successfully")
}

// Logout revokes the presented access token
// @Summary Logout
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.AppError
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx echo.Context) error {
	token := bearerToken(ctx)
	if token == "" {
		return c.Unauthorized(errors.ErrMissingAuthorizationHeader, "Missing authorization header", nil)
	}

	if appErr := c.service.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out successfully")
}

// GetProfile returns the authenticated user's profile
// @Summary Get profile
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /auth/profile [get]
func (c *AuthController) GetProfile(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	profile, appErr := c.service.GetProfile(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, profile, "Profile retrieved successfully")
}

// UpdateProfile modifies the authenticated user's profile
// @Summary Update profile
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	req := new(dto.UpdateProfileRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	profile, appErr := c.service.UpdateProfile(ctx.Request().Context(), userID, req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, profile, "Profile updated successfully")
}

// UploadAvatar stores a new avatar image
// @Summary Upload avatar
// @Tags Auth
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.AppError
// @Router /auth/avatar [post]
func (c *AuthController) UploadAvatar(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	fileHeader, err := ctx.FormFile("avatar")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Avatar file is required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Failed to read avatar file", nil)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	profile, appErr := c.service.UploadAvatar(ctx.Request().Context(), userID, fileHeader.Filename, contentType, file)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, profile, "Avatar uploaded successfully")
}

// GoogleLogin redirects to Google's consent screen
// @Summary Google sign-in
// @Tags Auth
// @Produce json
// @Success 302
// @Router /auth/google [get]
func (c *AuthController) GoogleLogin(ctx echo.Context) error {
	url, appErr := c.service.GetGoogleAuthURL(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return ctx.Redirect(http.StatusFound, url)
}

// GoogleCallback completes the Google sign-in flow
// @Summary Google sign-in callback
// @Tags Auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.AppError
// @Router /auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx echo.Context) error {
	code := ctx.QueryParam("code")
	state := ctx.QueryParam("state")
	if code == "" || state == "" {
		return c.BadRequest(errors.ErrInvalidInput, "Missing code or state", nil)
	}

	tokens, appErr := c.service.HandleGoogleCallback(ctx.Request().Context(), code, state)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, tokens, "Logged in successfully")
}
