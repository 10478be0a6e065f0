// Package catalog is the read-only view of the menu that the cart needs:
// name, price, image, category and availability status.
package catalog

import (
	"context"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

// Catalog looks up menu items. Both methods return (nil, nil) when the id
// does not exist.
type Catalog interface {
	FindFoodItem(ctx context.Context, id int) (*models.MenuItem, error)
	FindBeverageItem(ctx context.Context, id int) (*models.MenuItem, error)
}

// Lookup resolves whichever of the two menu ids is set.
func Lookup(ctx context.Context, c Catalog, foodID, beverageID *int) (*models.MenuItem, models.MenuItemType, error) {
	if foodID != nil {
		item, err := c.FindFoodItem(ctx, *foodID)
		return item, models.MenuItemFood, err
	}
	if beverageID != nil {
		item, err := c.FindBeverageItem(ctx, *beverageID)
		return item, models.MenuItemBeverage, err
	}
	return nil, "", nil
}
