package cart

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/cache"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/catalog"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/logger"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

const (
	unknownItemName    = "Unknown Item"
	reasonNotFound     = "Item not found"
	reasonNotAvailable = "Item no longer available"
)

// Store keeps one cart per user in the shared cache. Every mutation reads the
// whole cart, changes it in memory and writes it back with a fresh TTL. There
// is no compare-and-swap, so concurrent writers to the same cart race and the
// last write wins.
type Store struct {
	cache   cache.Cache
	catalog catalog.Catalog
	log     *logger.Logger
	newID   func() string
}

func NewStore(c cache.Cache, cat catalog.Catalog, log *logger.Logger) *Store {
	return &Store{
		cache:   c,
		catalog: cat,
		log:     log.WithComponent("cart"),
		newID:   uuid.NewString,
	}
}

func (s *Store) load(ctx context.Context, userID string) ([]models.CartLine, bool, error) {
	var lines []models.CartLine
	found, err := s.cache.Get(ctx, cache.CartKey(userID), &lines)
	if err != nil {
		return nil, false, fmt.Errorf("load cart for user %s: %w", userID, err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	return lines, found, nil
}

func (s *Store) save(ctx context.Context, userID string, lines []models.CartLine) (*models.Cart, error) {
	if err := s.cache.Set(ctx, cache.CartKey(userID), lines, cache.CartTTL); err != nil {
		return nil, fmt.Errorf("save cart for user %s: %w", userID, err)
	}
	return &models.Cart{UserID: userID, Items: lines}, nil
}

// GetCart returns the user's cart, creating an empty one when none exists.
// Cache failures degrade to an empty cart that is not written back.
func (s *Store) GetCart(ctx context.Context, userID string) *models.Cart {
	lines, found, err := s.load(ctx, userID)
	if err != nil {
		s.log.Error("Failed to read cart", "user_id", userID, "error", err)
		return &models.Cart{UserID: userID, Items: []models.CartLine{}}
	}
	if !found {
		if _, err := s.save(ctx, userID, lines); err != nil {
			s.log.Warn("Failed to initialize cart", "user_id", userID, "error", err)
		}
	}
	return &models.Cart{UserID: userID, Items: lines}
}

func (s *Store) GetCartWithDetails(ctx context.Context, userID string) *models.CartDetails {
	c := s.GetCart(ctx, userID)

	details := &models.CartDetails{Items: make([]models.CartLineDetail, 0, len(c.Items))}
	var subtotal float64
	for _, line := range c.Items {
		d := models.CartLineDetail{CartLine: line, Name: unknownItemName}

		item, _, err := catalog.Lookup(ctx, s.catalog, line.FoodMenuID, line.BeverageMenuID)
		if err != nil {
			s.log.Warn("Failed to resolve cart item", "user_id", userID, "item_id", line.ID, "error", err)
		}
		if item != nil {
			d.Name = item.Name
			d.Image = item.Image
			d.Category = item.Category
			if item.Price != nil {
				d.Price = *item.Price
			}
		}

		d.Subtotal = roundMoney(d.Price * float64(line.Quantity))
		subtotal += d.Price * float64(line.Quantity)
		details.TotalItems += line.Quantity
		details.Items = append(details.Items, d)
	}
	details.Subtotal = roundMoney(subtotal)
	return details
}

func (s *Store) AddToCart(ctx context.Context, userID string, req models.AddCartItemRequest) (*models.Cart, error) {
	if err := validateItemRef(req.FoodMenuID, req.BeverageMenuID); err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, &models.ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	}

	item, itemType, err := catalog.Lookup(ctx, s.catalog, req.FoodMenuID, req.BeverageMenuID)
	if err != nil {
		return nil, fmt.Errorf("lookup menu item: %w", err)
	}
	if item == nil {
		return nil, &models.NotFoundError{Entity: string(itemType) + " menu item", ID: refID(req.FoodMenuID, req.BeverageMenuID)}
	}

	lines, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines = s.merge(lines, models.CartLine{
		FoodMenuID:     req.FoodMenuID,
		BeverageMenuID: req.BeverageMenuID,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
	})

	return s.save(ctx, userID, lines)
}

// merge increments an existing line for the same menu item or appends a new
// line with a fresh id.
func (s *Store) merge(lines []models.CartLine, in models.CartLine) []models.CartLine {
	for i := range lines {
		if lines[i].SameItem(in) {
			lines[i].Quantity += in.Quantity
			if in.Notes != nil {
				lines[i].Notes = in.Notes
			}
			return lines
		}
	}
	in.ID = s.newID()
	return append(lines, in)
}

func (s *Store) UpdateCartItem(ctx context.Context, userID, itemID string, quantity int, notes *string) (*models.Cart, error) {
	lines, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, line := range lines {
		if line.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &models.NotFoundError{Entity: "cart item", ID: itemID}
	}

	if quantity <= 0 {
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		lines[idx].Quantity = quantity
		if notes != nil {
			lines[idx].Notes = notes
		}
	}

	return s.save(ctx, userID, lines)
}

// RemoveFromCart is idempotent: removing an unknown id is not an error.
func (s *Store) RemoveFromCart(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	lines, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ID != itemID {
			kept = append(kept, line)
		}
	}

	return s.save(ctx, userID, kept)
}

func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if err := s.cache.Del(ctx, cache.CartKey(userID)); err != nil {
		return fmt.Errorf("clear cart for user %s: %w", userID, err)
	}
	return nil
}

// ValidateCartItems re-checks every line against the catalog without
// changing the cart.
func (s *Store) ValidateCartItems(ctx context.Context, userID string) (*models.CartValidation, error) {
	lines, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.CartValidation{Valid: true, Details: make([]models.CartItemValidation, 0, len(lines))}
	for _, line := range lines {
		item, itemType, err := catalog.Lookup(ctx, s.catalog, line.FoodMenuID, line.BeverageMenuID)
		if err != nil {
			return nil, fmt.Errorf("validate cart item %s: %w", line.ID, err)
		}

		v := models.CartItemValidation{ItemID: line.ID, Type: string(itemType), Valid: true}
		switch {
		case item == nil:
			v.Valid = false
			v.Reason = reasonNotFound
		case !item.IsActive():
			v.Valid = false
			v.Reason = reasonNotAvailable
			v.Name = item.Name
		default:
			v.Name = item.Name
		}

		if !v.Valid {
			result.Valid = false
			result.InvalidItems++
		}
		result.Details = append(result.Details, v)
	}
	return result, nil
}

// MigrateCartFromLocal merges a client-held cart into the server cart. Lines
// that are malformed, missing from the catalog or inactive are dropped and
// only counted.
func (s *Store) MigrateCartFromLocal(ctx context.Context, userID string, incoming []models.AddCartItemRequest) (*models.CartMigration, error) {
	lines, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	dropped := 0
	for _, in := range incoming {
		if validateItemRef(in.FoodMenuID, in.BeverageMenuID) != nil || in.Quantity < 1 {
			dropped++
			continue
		}

		item, _, err := catalog.Lookup(ctx, s.catalog, in.FoodMenuID, in.BeverageMenuID)
		if err != nil {
			s.log.Warn("Dropping local cart item after lookup failure", "user_id", userID, "error", err)
			dropped++
			continue
		}
		if item == nil || !item.IsActive() {
			dropped++
			continue
		}

		lines = s.merge(lines, models.CartLine{
			FoodMenuID:     in.FoodMenuID,
			BeverageMenuID: in.BeverageMenuID,
			Quantity:       in.Quantity,
			Notes:          in.Notes,
		})
	}

	if dropped > 0 {
		s.log.Info("Dropped invalid items during cart migration", "user_id", userID, "dropped", dropped)
	}

	c, err := s.save(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	return &models.CartMigration{Cart: c, Dropped: dropped}, nil
}

func (s *Store) GetCartItemCount(ctx context.Context, userID string) (int, error) {
	lines, _, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

func validateItemRef(foodID, beverageID *int) error {
	if (foodID == nil) == (beverageID == nil) {
		return &models.ValidationError{
			Field:   "food_menu_id",
			Message: "exactly one of food_menu_id or beverage_menu_id is required",
		}
	}
	return nil
}

func refID(foodID, beverageID *int) string {
	if foodID != nil {
		return strconv.Itoa(*foodID)
	}
	if beverageID != nil {
		return strconv.Itoa(*beverageID)
	}
	return ""
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
