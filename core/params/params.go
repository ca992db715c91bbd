package params

import (
	"strconv"

	"wellness-planner/core/constants"

	"github.com/labstack/echo/v4"
)

// QueryParams are the common list-endpoint query parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams reads page/limit/search from the request, clamped to
// sane bounds.
func NewQueryParams(ctx echo.Context) *QueryParams {
	page, err := strconv.Atoi(ctx.QueryParam("page"))
	if err != nil || page < 1 {
		page = constants.DefaultPageNumber
	}

	size, err := strconv.Atoi(ctx.QueryParam("limit"))
	if err != nil || size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}

	return &QueryParams{
		PageNumber: page,
		PageSize:   size,
		Search:     ctx.QueryParam("search"),
	}
}
