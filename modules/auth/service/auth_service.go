package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wellness-planner/core/cache"
	"wellness-planner/core/config"
	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/storage"
	"wellness-planner/core/utils"
	"wellness-planner/modules/auth/dto"
	"wellness-planner/modules/auth/entity"
	"wellness-planner/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// oauthStateTTL bounds how long a Google sign-in round trip may take
const oauthStateTTL = constants.DefaultRequestTimeout * 30

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*dto.UserResponse, *errors.AppError)
	GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError)
	ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type AuthService struct {
	repo     repository.AuthRepositoryInterface
	cache    cache.Cache
	uploader storage.Uploader
}

func NewAuthService(repo repository.AuthRepositoryInterface, cache cache.Cache, uploader storage.Uploader) AuthServiceInterface {
	return &AuthService{
		repo:     repo,
		cache:    cache,
		uploader: uploader,
	}
}

func (service *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.LoginResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)
	if !utils.IsValidEmail(email) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "A valid email is required", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Password must be at least 8 characters", nil)
	}

	exists, err := service.repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		logger.Error("AuthService:Register:Exists:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing users", err)
	}
	if exists {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email or username is already taken", nil)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Register:HashPassword:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create account", err)
	}

	user := &entity.User{
		Email:    &email,
		Password: hashed,
		Timezone: defaultTimezone(req.Timezone),
		IsActive: true,
	}
	if username != "" {
		user.Username = &username
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}

	created, err := service.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Error("AuthService:Register:CreateUser:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create account", err)
	}

	return service.issueTokens(created)
}

func (service *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	loginKey := fmt.Sprintf("%s%s", constants.RedisKeyLoginAttempt, strings.ToLower(req.Identifier))

	blocked, err := service.cache.IsLoginBlocked(ctx, loginKey)
	if err != nil {
		logger.Error("AuthService:Login:IsLoginBlocked:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check login attempts", err)
	}
	if blocked {
		if err := service.cache.Expire(ctx, loginKey, constants.BlockDuration); err != nil {
			logger.Error("AuthService:Login:Expire:Error:", err)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Too many failed attempts, try again later", nil)
	}

	user, err := service.repo.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid credentials", nil)
		}
		logger.Error("AuthService:Login:GetUser:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load account", err)
	}

	if !user.IsActive {
		service.recordFailedAttempt(ctx, loginKey)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Account is deactivated", nil)
	}
	if user.Password == "" || !utils.ComparePassword(user.Password, req.Password) {
		service.recordFailedAttempt(ctx, loginKey)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid credentials", nil)
	}

	if err := service.cache.Del(ctx, loginKey); err != nil {
		logger.Warn("AuthService:Login:ClearAttempts:Error:", err)
	}

	return service.issueTokens(user)
}

func (service *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.LoginResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	blacklisted, err := service.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("AuthService:RefreshToken:Blacklist:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check token", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token has been revoked", nil)
	}

	claims, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid refresh token", err)
	}
	if claims.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Not a refresh token", nil)
	}

	user, err := service.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		logger.Error("AuthService:RefreshToken:GetUser:Error:", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Account not found", nil)
	}

	// The old refresh token is single use
	if err := service.cache.AddToTokenBlacklist(ctx, refreshToken); err != nil {
		logger.Warn("AuthService:RefreshToken:Revoke:Error:", err)
	}

	return service.issueTokens(user)
}

func (service *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if err := service.cache.AddToTokenBlacklist(ctx, token); err != nil {
		logger.Error("AuthService:Logout:Error:", err)
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", err)
	}
	return nil
}

func (service *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "Account not found", nil)
		}
		logger.Error("AuthService:GetProfile:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load profile", err)
	}
	return toUserResponse(user), nil
}

func (service *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("AuthService:UpdateProfile:Get:Error:", err)
		return nil, errors.NewAppError(errors.ErrNotFound, "Account not found", nil)
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			user.Username = nil
		} else {
			taken, err := service.repo.ExistsByEmailOrUsername(ctx, "", username)
			if err != nil {
				logger.Error("AuthService:UpdateProfile:Exists:Error:", err)
				return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check username", err)
			}
			if taken && (user.Username == nil || !strings.EqualFold(*user.Username, username)) {
				return nil, errors.NewAppError(errors.ErrAlreadyExists, "Username is already taken", nil)
			}
			user.Username = &username
		}
	}
	if req.FullName != nil {
		user.FullName = req.FullName
	}
	if req.Timezone != nil {
		user.Timezone = defaultTimezone(*req.Timezone)
	}

	if err := service.repo.UpdateUser(ctx, user); err != nil {
		logger.Error("AuthService:UpdateProfile:Update:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update profile", err)
	}
	return toUserResponse(user), nil
}

// UploadAvatar stores the image in the object store and saves its URL
func (service *AuthService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (*dto.UserResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if service.uploader == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Avatar uploads are not configured", nil)
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Avatar must be an image", nil)
	}

	user, err := service.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("AuthService:UploadAvatar:Get:Error:", err)
		return nil, errors.NewAppError(errors.ErrNotFound, "Account not found", nil)
	}

	key := fmt.Sprintf("avatars/%s/%s-%s", userID, utils.GenerateID(), sanitizeFilename(filename))
	url, err := service.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		logger.Error("AuthService:UploadAvatar:Upload:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to store avatar", err)
	}

	user.AvatarURL = &url
	if err := service.repo.UpdateUser(ctx, user); err != nil {
		logger.Error("AuthService:UploadAvatar:Update:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to save avatar", err)
	}
	return toUserResponse(user), nil
}

func (service *AuthService) GetGoogleAuthURL(ctx context.Context) (string, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	cfg, ok := config.GetSafe()
	if !ok {
		return "", errors.NewAppError(errors.ErrInternalServer, "Server configuration error", nil)
	}

	state := utils.GenerateRandomString(32)
	if err := service.cache.Set(ctx, "oauth:state:"+state, "1", oauthStateTTL); err != nil {
		logger.Error("AuthService:GetGoogleAuthURL:SaveState:Error:", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "Failed to save state", err)
	}

	oauthConfig := service.googleConfig(cfg)
	return oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (service *AuthService) HandleGoogleCallback(ctx context.Context, code string, state string) (*dto.LoginResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	stored, err := service.cache.Get(ctx, "oauth:state:"+state)
	if err != nil || stored == "" {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid or expired OAuth state", nil)
	}
	if err := service.cache.Del(ctx, "oauth:state:"+state); err != nil {
		logger.Warn("AuthService:HandleGoogleCallback:DeleteState:Error:", err)
	}

	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Server configuration error", nil)
	}

	oauthConfig := service.googleConfig(cfg)
	token, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error:", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Failed to exchange authorization code", err)
	}

	info, err := service.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:UserInfo:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to fetch Google profile", err)
	}

	user, err := service.repo.GetUserByGoogleID(ctx, info.ID)
	if err == sql.ErrNoRows {
		user, err = service.findOrCreateGoogleUser(ctx, info)
	}
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:User:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to resolve account", err)
	}

	return service.issueTokens(user)
}

// ListActiveUserIDs is used by the background jobs
func (service *AuthService) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return service.repo.ListActiveUserIDs(ctx)
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// getGoogleUserInfo fetches the profile behind the access token
func (service *AuthService) getGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}

// findOrCreateGoogleUser links by email when an account exists, otherwise
// provisions a passwordless account.
func (service *AuthService) findOrCreateGoogleUser(ctx context.Context, info *googleUserInfo) (*entity.User, error) {
	if user, err := service.repo.GetUserByIdentifier(ctx, info.Email); err == nil {
		user.GoogleID = &info.ID
		if user.AvatarURL == nil && info.Picture != "" {
			user.AvatarURL = &info.Picture
		}
		if err := service.repo.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	email := strings.ToLower(info.Email)
	user := &entity.User{
		Email:    &email,
		GoogleID: &info.ID,
		Timezone: "UTC",
		IsActive: true,
	}
	if info.Name != "" {
		user.FullName = &info.Name
	}
	if info.Picture != "" {
		user.AvatarURL = &info.Picture
	}
	return service.repo.CreateUser(ctx, user)
}

func (service *AuthService) googleConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleAPI.ClientID,
		ClientSecret: cfg.GoogleAPI.ClientSecret,
		RedirectURL:  cfg.GoogleAPI.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

func (service *AuthService) issueTokens(user *entity.User) (*dto.LoginResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenAccess)
	if err != nil {
		logger.Error("AuthService:issueTokens:Access:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Username, constants.ScopeTokenRefresh)
	if err != nil {
		logger.Error("AuthService:issueTokens:Refresh:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate refresh token", err)
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (service *AuthService) recordFailedAttempt(ctx context.Context, loginKey string) {
	if err := service.cache.IncrementLoginAttempt(ctx, loginKey); err != nil {
		logger.Error("AuthService:recordFailedAttempt:Error:", err)
	}
}

func toUserResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Timezone:  user.Timezone,
		CreatedAt: user.CreatedAt,
	}
}

func defaultTimezone(tz string) string {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return "UTC"
	}
	return tz
}

func sanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		return "avatar"
	}
	return name
}
