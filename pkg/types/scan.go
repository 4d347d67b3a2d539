package types

import (
	"fmt"
	"slices"

	"gorm.io/gorm/clause"
)

const maxScanSize = 200

// ScanRequest is the paginated listing request shared by admin list APIs.
type ScanRequest struct {
	Filters   []*CommonFilter `json:"filters"`
	From      int             `json:"from"`
	Size      int             `json:"size"`
	SortBy    string          `json:"sort_by"`
	SortOrder string          `json:"sort_order"`
}

// Normalize applies paging defaults and checks filter and sort columns against allowed.
func (r *ScanRequest) Normalize(allowed ...string) error {
	if r.Size <= 0 {
		r.Size = 10
	}
	if r.Size > maxScanSize {
		r.Size = maxScanSize
	}
	if r.From < 0 {
		r.From = 0
	}
	if r.SortBy != "" && !slices.Contains(allowed, r.SortBy) {
		return fmt.Errorf("sort on field %q is not supported", r.SortBy)
	}
	return ValidateFilters(r.Filters, allowed...)
}

// OrderBy returns the ORDER BY clause, newest first unless sort_order is "asc".
func (r *ScanRequest) OrderBy(defaultColumn string) clause.OrderBy {
	col := r.SortBy
	if col == "" {
		col = defaultColumn
	}
	return clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: col}, Desc: r.SortOrder != "asc"}}}
}

// FiltersAnd combines filters into a single clause.Expression.
type FiltersAnd []*CommonFilter

func (w FiltersAnd) Build(builder clause.Builder) {
	if len(w) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w))
	for _, f := range w {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}
