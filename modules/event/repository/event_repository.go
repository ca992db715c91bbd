package repository

import (
	"context"
	"fmt"
	"time"

	"wellness-planner/core/database"
	"wellness-planner/core/logger"
	"wellness-planner/core/params"
	"wellness-planner/modules/event/dto"
	"wellness-planner/modules/event/entity"

	"github.com/google/uuid"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	SetStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, status entity.EventStatus) error
	SoftDelete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Event, error)
	ListRange(ctx context.Context, userID uuid.UUID, filter dto.ListEventsFilter, params params.QueryParams) (*entity.PaginatedEventEntity, error)
	ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.Event, error)
	ListOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]entity.Event, error)
	ListDeleted(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedEventEntity, error)
}

type eventRepository struct {
	db database.Database
}

func NewEventRepository(db database.Database) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, user_id, category_id, title, description, location, start_time, end_time, all_day, priority, status, created_at, updated_at, deleted_at`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		INSERT INTO events (user_id, category_id, title, description, location, start_time, end_time, all_day, priority, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		event.UserID, event.CategoryID, event.Title, event.Description, event.Location,
		event.StartTime, event.EndTime, event.AllDay, event.Priority, event.Status,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	if err != nil {
		logger.Error("EventRepository:Create:Error:", err)
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id, userID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET category_id = $1, title = $2, description = $3, location = $4,
		    start_time = $5, end_time = $6, all_day = $7, priority = $8, updated_at = NOW()
		WHERE id = $9 AND user_id = $10 AND deleted_at IS NULL
	`
	return r.db.ExecContext(ctx, query,
		event.CategoryID, event.Title, event.Description, event.Location,
		event.StartTime, event.EndTime, event.AllDay, event.Priority,
		event.ID, event.UserID,
	)
}

func (r *eventRepository) SetStatus(ctx context.Context, id uuid.UUID, userID uuid.UUID, status entity.EventStatus) error {
	query := `
		UPDATE events
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
	`
	return r.db.ExecContext(ctx, query, status, id, userID)
}

func (r *eventRepository) SoftDelete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	query := `
		UPDATE events
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	return r.db.ExecContext(ctx, query, id, userID)
}

// Restore clears deleted_at and returns the row so the caller sees the revived event
func (r *eventRepository) Restore(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*entity.Event, error) {
	query := `
		UPDATE events
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
		RETURNING ` + eventColumns + `
	`
	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id, userID)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListRange lists active events intersecting [From, To) with optional filters
func (r *eventRepository) ListRange(ctx context.Context, userID uuid.UUID, filter dto.ListEventsFilter, queryParams params.QueryParams) (*entity.PaginatedEventEntity, error) {
	where := `FROM events WHERE user_id = $1 AND deleted_at IS NULL`
	args := []any{userID}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(" AND end_time > $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(" AND start_time < $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where += fmt.Sprintf(" AND priority = $%d", len(args))
	}

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+where, args...); err != nil {
		logger.Error("EventRepository:ListRange:Count:Error:", err)
		return nil, err
	}

	offset := (queryParams.PageNumber - 1) * queryParams.PageSize
	args = append(args, queryParams.PageSize, offset)
	query := fmt.Sprintf(
		"SELECT "+eventColumns+" %s ORDER BY start_time ASC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args),
	)

	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		logger.Error("EventRepository:ListRange:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

// ListBetween returns every active event intersecting [from, to), unpaginated.
// Used by month views and the analytics folds.
func (r *eventRepository) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND deleted_at IS NULL
		AND end_time > $2 AND start_time < $3
		ORDER BY start_time ASC
	`
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, userID, from, to); err != nil {
		logger.Error("EventRepository:ListBetween:Error:", err)
		return nil, err
	}
	return events, nil
}

// ListOverlapping finds scheduled events that intersect [start, end)
func (r *eventRepository) ListOverlapping(ctx context.Context, userID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE user_id = $1 AND deleted_at IS NULL
		AND status = 'scheduled'
		AND start_time < $3 AND end_time > $2
		AND ($4::uuid IS NULL OR id != $4)
		ORDER BY start_time ASC
	`
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, userID, start, end, excludeID); err != nil {
		logger.Error("EventRepository:ListOverlapping:Error:", err)
		return nil, err
	}
	return events, nil
}

// ListDeleted lists soft-deleted events so the user can restore them
func (r *eventRepository) ListDeleted(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedEventEntity, error) {
	where := `FROM events WHERE user_id = $1 AND deleted_at IS NOT NULL`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*) "+where, userID); err != nil {
		logger.Error("EventRepository:ListDeleted:Count:Error:", err)
		return nil, err
	}

	offset := (queryParams.PageNumber - 1) * queryParams.PageSize
	query := `
		SELECT ` + eventColumns + ` ` + where + `
		ORDER BY deleted_at DESC
		LIMIT $2 OFFSET $3
	`
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, userID, queryParams.PageSize, offset); err != nil {
		logger.Error("EventRepository:ListDeleted:Select:Error:", err)
		return nil, err
	}

	return &entity.PaginatedEventEntity{
		Items:      events,
		TotalItems: totalItems,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}
