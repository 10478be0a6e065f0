package catalog

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

func TestLookup(t *testing.T) {
	price := 18000.0
	m := NewMemory(
		models.MenuItem{ID: 1, Type: models.MenuItemFood, Name: "Khao Jee", Status: models.MenuStatusActive},
		models.MenuItem{ID: 1, Type: models.MenuItemBeverage, Name: "Lao Coffee", Price: &price, Status: "inactive"},
	)
	ctx := context.Background()
	one := 1
	two := 2

	item, typ, err := Lookup(ctx, m, &one, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MenuItemFood, typ)
	assert.Equal(t, "Khao Jee", item.Name)
	assert.True(t, item.IsActive())

	item, typ, err = Lookup(ctx, m, nil, &one)
	require.NoError(t, err)
	assert.Equal(t, models.MenuItemBeverage, typ)
	assert.False(t, item.IsActive())

	item, _, err = Lookup(ctx, m, &two, nil)
	require.NoError(t, err)
	assert.Nil(t, item)

	item, typ, err = Lookup(ctx, m, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.Empty(t, typ)
}

// Runs against a real database when CATALOG_TEST_DATABASE_URL is set.
func TestPostgresMissingItem(t *testing.T) {
	url := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	p, err := NewPostgres(ctx, url)
	require.NoError(t, err)
	defer p.Close()
	require.NoError(t, p.Ping(ctx))

	item, err := p.FindFoodItem(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, item)
}
