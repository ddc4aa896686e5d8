// Package pagination is the single paging contract shared by every list
// endpoint: parameter normalization, the concurrent count+fetch query,
// and the uniform response envelope.
package pagination

import (
	"context"
	"net/url"
	"strconv"

	"gorm.io/gorm"
)

type Defaults struct {
	Page     int
	Limit    int
	MinLimit int
	MaxLimit int
}

var StandardDefaults = Defaults{Page: 1, Limit: 10, MinLimit: 1, MaxLimit: 100}

type Params struct {
	Page  int
	Limit int
	Skip  int
}

// ParseParams normalizes page/limit query values. Invalid or missing
// input never errors, it silently falls back to defaults and clamps:
// page >= 1, limit within [MinLimit, MaxLimit].
func ParseParams(query url.Values, d Defaults) Params {
	page := atoiOr(query.Get("page"), d.Page)
	if page < 1 {
		page = 1
	}

	limit := atoiOr(query.Get("limit"), d.Limit)
	if limit < d.MinLimit {
		limit = d.MinLimit
	}
	if limit > d.MaxLimit {
		limit = d.MaxLimit
	}

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int   `json:"totalPages"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
	NextPage     *int  `json:"nextPage"`
	PrevPage     *int  `json:"prevPage"`
	StartIndex   int   `json:"startIndex"`
	EndIndex     int   `json:"endIndex"`
}

// NewMeta derives paging metadata. total == 0 yields zero pages and no
// next/prev regardless of the requested page.
func NewMeta(page, limit int, total int64) Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	m := Meta{
		CurrentPage:  page,
		ItemsPerPage: limit,
		TotalItems:   total,
		TotalPages:   totalPages,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1 && total > 0,
		StartIndex:   (page - 1) * limit,
	}

	end := page * limit
	if int64(end) > total {
		end = int(total)
	}
	m.EndIndex = end

	if m.HasNextPage {
		next := page + 1
		m.NextPage = &next
	}
	if m.HasPrevPage {
		prev := page - 1
		m.PrevPage = &prev
	}
	return m
}

// NewResponse builds the envelope every list endpoint returns. Callers
// can merge extra top-level fields, list-specific stats for example.
func NewResponse(data any, page, limit int, total int64, extra map[string]any) map[string]any {
	resp := map[string]any{
		"success":    true,
		"data":       data,
		"pagination": NewMeta(page, limit, total),
	}
	for k, v := range extra {
		resp[k] = v
	}
	return resp
}

// Scope applies conditions to a fresh query; both the count and the
// fetch run through the same scope.
type Scope func(*gorm.DB) *gorm.DB

type Options struct {
	Sort    string
	Preload []string
	Select  string
}

type Page[T any] struct {
	Data  []T
	Total int64
	Meta  Meta
}

// Paginate runs the count and the data fetch concurrently against the
// same scope. There is no snapshot isolation between the two reads: a
// write landing in between can make Total slightly stale relative to
// Data, which is an accepted property of this contract.
func Paginate[T any](ctx context.Context, db *gorm.DB, scope Scope, p Params, opts Options) (*Page[T], error) {
	if scope == nil {
		scope = func(q *gorm.DB) *gorm.DB { return q }
	}

	countCh := make(chan error, 1)
	var total int64

	go func() {
		countCh <- scope(db.WithContext(ctx).Model(new(T))).Count(&total).Error
	}()

	q := scope(db.WithContext(ctx).Model(new(T)))
	if opts.Sort != "" {
		q = q.Order(opts.Sort)
	}
	for _, rel := range opts.Preload {
		q = q.Preload(rel)
	}
	if opts.Select != "" {
		q = q.Select(opts.Select)
	}

	var data []T
	fetchErr := q.Offset(p.Skip).Limit(p.Limit).Find(&data).Error

	if err := <-countCh; err != nil {
		return nil, err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}

	return &Page[T]{
		Data:  data,
		Total: total,
		Meta:  NewMeta(p.Page, p.Limit, total),
	}, nil
}
