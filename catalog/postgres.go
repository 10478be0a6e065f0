package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

const (
	foodItemQuery = `
		SELECT f.id, f.name, f.price, COALESCE(f.image, ''), f.status, COALESCE(c.name, '')
		FROM food_menus f
		LEFT JOIN menu_categories c ON c.id = f.category_id
		WHERE f.id = $1`

	beverageItemQuery = `
		SELECT b.id, b.name, b.price, COALESCE(b.image, ''), b.status, COALESCE(c.name, '')
		FROM beverage_menus b
		LEFT JOIN menu_categories c ON c.id = b.category_id
		WHERE b.id = $1`
)

// Postgres reads the menu tables owned by the menu CRUD service.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) FindFoodItem(ctx context.Context, id int) (*models.MenuItem, error) {
	return p.findItem(ctx, foodItemQuery, id, models.MenuItemFood)
}

func (p *Postgres) FindBeverageItem(ctx context.Context, id int) (*models.MenuItem, error) {
	return p.findItem(ctx, beverageItemQuery, id, models.MenuItemBeverage)
}

func (p *Postgres) findItem(ctx context.Context, query string, id int, itemType models.MenuItemType) (*models.MenuItem, error) {
	item := models.MenuItem{Type: itemType}
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Price, &item.Image, &item.Status, &item.Category,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query %s item %d: %w", itemType, id, err)
	}
	return &item, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}
