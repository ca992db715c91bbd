package service

import (
	"context"
	"database/sql"
	"strings"

	"wellness-planner/core/constants"
	"wellness-planner/core/errors"
	"wellness-planner/core/logger"
	"wellness-planner/core/utils"
	"wellness-planner/modules/category/dto"
	"wellness-planner/modules/category/entity"
	"wellness-planner/modules/category/repository"

	"github.com/google/uuid"
	gosluggenerator "github.com/gosimple/slug"
)

// DefaultCategories is the shared taxonomy seeded at startup. Users cannot
// modify or delete these rows.
var DefaultCategories = []entity.EventCategory{
	{Name: "Work", Slug: "work", Color: "#4A90D9", Icon: "briefcase", SortOrder: 1},
	{Name: "Personal", Slug: "personal", Color: "#7B61FF", Icon: "user", SortOrder: 2},
	{Name: "Health", Slug: "health", Color: "#2EB872", Icon: "heart", SortOrder: 3},
	{Name: "Exercise", Slug: "exercise", Color: "#F28C38", Icon: "activity", SortOrder: 4},
	{Name: "Social", Slug: "social", Color: "#E85B81", Icon: "users", SortOrder: 5},
	{Name: "Rest", Slug: "rest", Color: "#5BC8E8", Icon: "moon", SortOrder: 6},
}

type CategoryService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCategoryRequest) (*entity.EventCategory, *errors.AppError)
	Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.EventCategory, *errors.AppError)
	List(ctx context.Context, userID uuid.UUID) ([]entity.EventCategory, *errors.AppError)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.UpdateCategoryRequest) (*entity.EventCategory, *errors.AppError)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError
	SeedDefaults(ctx context.Context) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCategoryRequest) (*entity.EventCategory, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Category name is required", nil)
	}
	if req.Color != "" && !utils.IsValidHexColor(req.Color) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Color must be a hex value like #2EB872", nil)
	}

	exists, err := s.repo.ExistsByName(ctx, userID, name, nil)
	if err != nil {
		logger.Error("CategoryService:Create:ExistsByName:Error:", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check category name", err)
	}
	if exists {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "A category with this name already exists", nil)
	}

	category := &entity.EventCategory{
		UserID:    &userID,
		Name:      name,
		Slug:      gosluggenerator.Make(name),
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
	}
	if category.Color == "" {
		category.Color = "#999999"
	}

	created, err := s.repo.Create(ctx, category)
	if err != nil {
		logger.Error("CategoryService:Create:Error:", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create category", err)
	}
	return created, nil
}

// Get returns a category visible to the user, either a system default or
// one of their own.
func (s *categoryService) Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.EventCategory, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "Category not found", nil)
		}
		logger.Error("CategoryService:Get:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load category", err)
	}
	if !category.IsSystemDefault() && *category.UserID != userID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Category not found", nil)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID) ([]entity.EventCategory, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	categories, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		logger.Error("CategoryService:List:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to list categories", err)
	}
	if categories == nil {
		categories = []entity.EventCategory{}
	}
	return categories, nil
}

func (s *categoryService) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, req *dto.UpdateCategoryRequest) (*entity.EventCategory, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	category, appErr := s.getOwned(ctx, userID, id)
	if appErr != nil {
		return nil, appErr
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Category name cannot be empty", nil)
		}
		exists, err := s.repo.ExistsByName(ctx, userID, name, &id)
		if err != nil {
			logger.Error("CategoryService:Update:ExistsByName:Error:", err)
			return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check category name", err)
		}
		if exists {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "A category with this name already exists", nil)
		}
		category.Name = name
		category.Slug = gosluggenerator.Make(name)
	}
	if req.Color != nil {
		if !utils.IsValidHexColor(*req.Color) {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "Color must be a hex value like #2EB872", nil)
		}
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := s.repo.Update(ctx, category); err != nil {
		logger.Error("CategoryService:Update:Error:", err)
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "Failed to update category", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.getOwned(ctx, userID, id); appErr != nil {
		return appErr
	}

	if err := s.repo.SoftDelete(ctx, id, userID); err != nil {
		logger.Error("CategoryService:Delete:Error:", err)
		return errors.NewAppError(errors.ErrDeleteFailed, "Failed to delete category", err)
	}
	return nil
}

// SeedDefaults is called once at startup
func (s *categoryService) SeedDefaults(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()
	return s.repo.SeedDefaults(ctx, DefaultCategories)
}

// getOwned loads a category and rejects system defaults and other users' rows
func (s *categoryService) getOwned(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*entity.EventCategory, *errors.AppError) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewAppError(errors.ErrNotFound, "Category not found", nil)
		}
		logger.Error("CategoryService:getOwned:Error:", err)
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to load category", err)
	}
	if category.IsSystemDefault() {
		return nil, errors.NewAppError(errors.ErrForbidden, "System default categories cannot be modified", nil)
	}
	if *category.UserID != userID {
		return nil, errors.NewAppError(errors.ErrNotFound, "Category not found", nil)
	}
	return category, nil
}
