package repository

import (
	"context"

	"wellness-planner/core/database"
	"wellness-planner/modules/category/entity"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.EventCategory) (*entity.EventCategory, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EventCategory, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.EventCategory, error)
	ExistsByName(ctx context.Context, userID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, category *entity.EventCategory) error
	SoftDelete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	SeedDefaults(ctx context.Context, defaults []entity.EventCategory) error
}

type categoryRepository struct {
	db database.Database
}

func NewCategoryRepository(db database.Database) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a user-owned category
func (r *categoryRepository) Create(ctx context.Context, category *entity.EventCategory) (*entity.EventCategory, error) {
	query := `
		INSERT INTO event_categories (user_id, name, slug, color, icon, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		category.UserID, category.Name, category.Slug, category.Color,
		category.Icon, category.SortOrder,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	if err != nil {
		return nil, err
	}
	return category, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventCategory, error) {
	query := `
		SELECT id, user_id, name, slug, color, icon, sort_order, created_at, updated_at, deleted_at
		FROM event_categories
		WHERE id = $1 AND deleted_at IS NULL
	`
	var category entity.EventCategory
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.UserID, &category.Name, &category.Slug,
		&category.Color, &category.Icon, &category.SortOrder,
		&category.CreatedAt, &category.UpdatedAt, &category.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListForUser returns the system defaults plus the user's own categories
func (r *categoryRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.EventCategory, error) {
	query := `
		SELECT id, user_id, name, slug, color, icon, sort_order, created_at, updated_at, deleted_at
		FROM event_categories
		WHERE (user_id IS NULL OR user_id = $1) AND deleted_at IS NULL
		ORDER BY user_id IS NULL DESC, sort_order ASC, name ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []entity.EventCategory
	for rows.Next() {
		var category entity.EventCategory
		if err := rows.Scan(
			&category.ID, &category.UserID, &category.Name, &category.Slug,
			&category.Color, &category.Icon, &category.SortOrder,
			&category.CreatedAt, &category.UpdatedAt, &category.DeletedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// ExistsByName checks for a case-insensitive name clash within a user's own
// categories and the shared defaults
func (r *categoryRepository) ExistsByName(ctx context.Context, userID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM event_categories
			WHERE (user_id IS NULL OR user_id = $1)
			AND LOWER(name) = LOWER($2)
			AND deleted_at IS NULL
			AND ($3::uuid IS NULL OR id != $3)
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, name, excludeID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.EventCategory) error {
	query := `
		UPDATE event_categories
		SET name = $1, slug = $2, color = $3, icon = $4, sort_order = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7 AND deleted_at IS NULL
	`
	return r.db.ExecContext(ctx, query,
		category.Name, category.Slug, category.Color, category.Icon,
		category.SortOrder, category.ID, category.UserID,
	)
}

// SoftDelete marks an owned category deleted; events keep their category_id
func (r *categoryRepository) SoftDelete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `
		UPDATE event_categories
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	return r.db.ExecContext(ctx, query, id, userID)
}

// SeedDefaults upserts the shared default taxonomy keyed by slug
func (r *categoryRepository) SeedDefaults(ctx context.Context, defaults []entity.EventCategory) error {
	query := `
		INSERT INTO event_categories (user_id, name, slug, color, icon, sort_order)
		VALUES (NULL, $1, $2, $3, $4, $5)
		ON CONFLICT (slug) WHERE user_id IS NULL
		DO UPDATE SET color = EXCLUDED.color, icon = EXCLUDED.icon, sort_order = EXCLUDED.sort_order, updated_at = NOW()
	`
	for _, d := range defaults {
		if err := r.db.ExecContext(ctx, query, d.Name, d.Slug, d.Color, d.Icon, d.SortOrder); err != nil {
			return err
		}
	}
	return nil
}
