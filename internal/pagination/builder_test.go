package pagination

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildScopeRejectsBadColumn(t *testing.T) {
	_, err := BuildScope(Match("price; DROP TABLE widgets", 1))
	assert.Error(t, err)

	_, err = BuildScope(Search("x"))
	assert.Error(t, err)
}

func TestBuildScopeConditions(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&widget{Name: "alpha grinder", Price: 10}).Error)
	require.NoError(t, db.Create(&widget{Name: "beta kettle", Price: 50}).Error)
	require.NoError(t, db.Create(&widget{Name: "alpha kettle", Price: 90}).Error)

	min := 40.0
	scope, err := BuildScope(
		Search("kettle", "name"),
		NumberRange("price", &min, nil),
	)
	require.NoError(t, err)

	result, err := Paginate[widget](ctx, db, scope, Params{Page: 1, Limit: 10}, Options{Sort: "price ASC"})
	require.NoError(t, err)

	require.Len(t, result.Data, 2)
	assert.Equal(t, "beta kettle", result.Data[0].Name)
	assert.Equal(t, "alpha kettle", result.Data[1].Name)
}

func TestEmptyValuedConditionsSkipped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&widget{Name: "solo", Price: 1}).Error)

	scope, err := BuildScope(
		Match("name", ""),
		Search("", "name"),
		DateRange("created_at", nil, nil),
	)
	require.NoError(t, err)

	result, err := Paginate[widget](ctx, db, scope, Params{Page: 1, Limit: 10}, Options{})
	require.NoError(t, err)
	assert.Len(t, result.Data, 1)
}

func TestDateRangeBounds(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&widget{Name: "early", Price: 1}).Error)

	future := time.Now().Add(time.Hour)
	scope, err := BuildScope(DateRange("created_at", &future, nil))
	require.NoError(t, err)

	result, err := Paginate[widget](ctx, db, scope, Params{Page: 1, Limit: 10}, Options{})
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Meta.TotalPages)
}
