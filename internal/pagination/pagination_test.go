package pagination

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	Price     float64
	CreatedAt time.Time
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&widget{}))
	return db
}

func query(pairs ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		v.Set(pairs[i], pairs[i+1])
	}
	return v
}

func TestParseParamsDefaults(t *testing.T) {
	p := ParseParams(query(), StandardDefaults)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Skip)
}

func TestParseParamsNeverErrors(t *testing.T) {
	// Garbage input falls back to defaults rather than failing.
	p := ParseParams(query("page", "abc", "limit", "x1"), StandardDefaults)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestParseParamsClamping(t *testing.T) {
	p := ParseParams(query("page", "-3", "limit", "100000"), StandardDefaults)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, StandardDefaults.MaxLimit, p.Limit)

	p = ParseParams(query("page", "3", "limit", "0"), StandardDefaults)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, StandardDefaults.MinLimit, p.Limit)
	assert.Equal(t, 2*p.Limit, p.Skip)
}

func TestNewMetaEmpty(t *testing.T) {
	m := NewMeta(1, 10, 0)

	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNextPage)
	assert.False(t, m.HasPrevPage)
	assert.Nil(t, m.NextPage)
	assert.Nil(t, m.PrevPage)
	assert.Equal(t, 0, m.EndIndex)
}

func TestNewMetaMiddlePage(t *testing.T) {
	m := NewMeta(2, 10, 25)

	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNextPage)
	assert.True(t, m.HasPrevPage)
	require.NotNil(t, m.NextPage)
	require.NotNil(t, m.PrevPage)
	assert.Equal(t, 3, *m.NextPage)
	assert.Equal(t, 1, *m.PrevPage)
	assert.Equal(t, 10, m.StartIndex)
	assert.Equal(t, 20, m.EndIndex)
}

func TestNewMetaLastPartialPage(t *testing.T) {
	m := NewMeta(3, 10, 25)

	assert.False(t, m.HasNextPage)
	assert.True(t, m.HasPrevPage)
	assert.Equal(t, 25, m.EndIndex)
}

func TestPaginateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&widget{Name: fmt.Sprintf("w-%02d", i), Price: float64(i)}).Error)
	}

	seen := map[uint]bool{}
	params := ParseParams(query("limit", "10"), StandardDefaults)

	for page := 1; ; page++ {
		params.Page = page
		params.Skip = (page - 1) * params.Limit

		result, err := Paginate[widget](ctx, db, nil, params, Options{Sort: "id ASC"})
		require.NoError(t, err)
		assert.LessOrEqual(t, len(result.Data), params.Limit)
		assert.Equal(t, int64(25), result.Total)

		for _, w := range result.Data {
			assert.False(t, seen[w.ID], "row returned twice")
			seen[w.ID] = true
		}

		if !result.Meta.HasNextPage {
			break
		}
	}

	// Concatenating all pages reproduces the full set.
	assert.Len(t, seen, 25)
}

func TestPaginateScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(&widget{Name: "cheap", Price: float64(i)}).Error)
	}
	require.NoError(t, db.Create(&widget{Name: "dear", Price: 999}).Error)

	scope := func(q *gorm.DB) *gorm.DB { return q.Where("price < ?", 100) }

	result, err := Paginate[widget](ctx, db, scope, Params{Page: 1, Limit: 5, Skip: 0}, Options{Sort: "id ASC"})
	require.NoError(t, err)

	assert.Equal(t, int64(10), result.Total)
	assert.Len(t, result.Data, 5)
	assert.Equal(t, 2, result.Meta.TotalPages)
}
