package service

import (
	"context"
	"database/sql"
	"testing"

	"wellness-planner/core/errors"
	"wellness-planner/modules/category/dto"
	"wellness-planner/modules/category/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCategoryRepo struct {
	byID    map[uuid.UUID]*entity.EventCategory
	taken   map[string]bool
	created *entity.EventCategory
	updated *entity.EventCategory
	deleted []uuid.UUID
	seeded  []entity.EventCategory
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		byID:  map[uuid.UUID]*entity.EventCategory{},
		taken: map[string]bool{},
	}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *entity.EventCategory) (*entity.EventCategory, error) {
	category.ID = uuid.New()
	f.created = category
	return category, nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.EventCategory, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCategoryRepo) ListForUser(_ context.Context, _ uuid.UUID) ([]entity.EventCategory, error) {
	return nil, nil
}

func (f *fakeCategoryRepo) ExistsByName(_ context.Context, _ uuid.UUID, name string, _ *uuid.UUID) (bool, error) {
	return f.taken[name], nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *entity.EventCategory) error {
	f.updated = category
	return nil
}

func (f *fakeCategoryRepo) SoftDelete(_ context.Context, id uuid.UUID, _ uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCategoryRepo) SeedDefaults(_ context.Context, defaults []entity.EventCategory) error {
	f.seeded = defaults
	return nil
}

func TestCategoryCreate(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("Slug And Default Color", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		svc := NewCategoryService(repo)

		created, appErr := svc.Create(ctx, userID, &dto.CreateCategoryRequest{Name: "Deep Work"})
		require.Nil(t, appErr)
		assert.Equal(t, "Deep Work", created.Name)
		assert.Equal(t, "deep-work", created.Slug)
		assert.Equal(t, "#999999", created.Color)
		require.NotNil(t, created.UserID)
		assert.Equal(t, userID, *created.UserID)
	})

	t.Run("Blank Name Rejected", func(t *testing.T) {
		svc := NewCategoryService(newFakeCategoryRepo())
		_, appErr := svc.Create(ctx, userID, &dto.CreateCategoryRequest{Name: "   "})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Bad Color Rejected", func(t *testing.T) {
		svc := NewCategoryService(newFakeCategoryRepo())
		_, appErr := svc.Create(ctx, userID, &dto.CreateCategoryRequest{Name: "Reading", Color: "blue"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	})

	t.Run("Duplicate Name Rejected", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		repo.taken["Work"] = true
		svc := NewCategoryService(repo)

		_, appErr := svc.Create(ctx, userID, &dto.CreateCategoryRequest{Name: "Work"})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrAlreadyExists, appErr.Code)
	})
}

func TestCategoryGet(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	ctx := context.Background()

	t.Run("System Default Is Visible", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		systemCat := &entity.EventCategory{Name: "Work", Slug: "work"}
		systemCat.ID = uuid.New()
		repo.byID[systemCat.ID] = systemCat
		svc := NewCategoryService(repo)

		got, appErr := svc.Get(ctx, userID, systemCat.ID)
		require.Nil(t, appErr)
		assert.Equal(t, "work", got.Slug)
	})

	t.Run("Own Category", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		mine := &entity.EventCategory{Name: "Mine", UserID: &userID}
		mine.ID = uuid.New()
		repo.byID[mine.ID] = mine
		svc := NewCategoryService(repo)

		got, appErr := svc.Get(ctx, userID, mine.ID)
		require.Nil(t, appErr)
		assert.Equal(t, "Mine", got.Name)
	})

	t.Run("Other Users Row Reads As Missing", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		theirs := &entity.EventCategory{Name: "Theirs", UserID: &otherID}
		theirs.ID = uuid.New()
		repo.byID[theirs.ID] = theirs
		svc := NewCategoryService(repo)

		_, appErr := svc.Get(ctx, userID, theirs.ID)
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("Missing Category", func(t *testing.T) {
		svc := NewCategoryService(newFakeCategoryRepo())
		_, appErr := svc.Get(ctx, userID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})
}

func TestCategoryUpdateOwnership(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()
	ctx := context.Background()
	newName := "Focus"

	t.Run("System Default Is Forbidden", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		systemCat := &entity.EventCategory{Name: "Work", Slug: "work"}
		systemCat.ID = uuid.New()
		repo.byID[systemCat.ID] = systemCat
		svc := NewCategoryService(repo)

		_, appErr := svc.Update(ctx, userID, systemCat.ID, &dto.UpdateCategoryRequest{Name: &newName})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrForbidden, appErr.Code)
	})

	t.Run("Other Users Row Reads As Missing", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		theirs := &entity.EventCategory{Name: "Theirs", UserID: &otherID}
		theirs.ID = uuid.New()
		repo.byID[theirs.ID] = theirs
		svc := NewCategoryService(repo)

		_, appErr := svc.Update(ctx, userID, theirs.ID, &dto.UpdateCategoryRequest{Name: &newName})
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("Rename Regenerates Slug", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		mine := &entity.EventCategory{Name: "Old", Slug: "old", UserID: &userID}
		mine.ID = uuid.New()
		repo.byID[mine.ID] = mine
		svc := NewCategoryService(repo)

		updated, appErr := svc.Update(ctx, userID, mine.ID, &dto.UpdateCategoryRequest{Name: &newName})
		require.Nil(t, appErr)
		assert.Equal(t, "Focus", updated.Name)
		assert.Equal(t, "focus", updated.Slug)
	})
}

func TestCategoryDelete(t *testing.T) {
	userID := uuid.New()
	ctx := context.Background()

	t.Run("Missing Category", func(t *testing.T) {
		svc := NewCategoryService(newFakeCategoryRepo())
		appErr := svc.Delete(ctx, userID, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, errors.ErrNotFound, appErr.Code)
	})

	t.Run("Owned Category", func(t *testing.T) {
		repo := newFakeCategoryRepo()
		mine := &entity.EventCategory{Name: "Mine", UserID: &userID}
		mine.ID = uuid.New()
		repo.byID[mine.ID] = mine
		svc := NewCategoryService(repo)

		require.Nil(t, svc.Delete(ctx, userID, mine.ID))
		assert.Equal(t, []uuid.UUID{mine.ID}, repo.deleted)
	})
}

func TestSeedDefaults(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	require.NoError(t, svc.SeedDefaults(context.Background()))
	require.Len(t, repo.seeded, len(DefaultCategories))
	assert.Nil(t, repo.seeded[0].UserID)
	assert.Equal(t, "work", repo.seeded[0].Slug)
}
