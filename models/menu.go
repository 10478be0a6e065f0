package models

type MenuItemType string

const (
	MenuItemFood     MenuItemType = "food"
	MenuItemBeverage MenuItemType = "beverage"
)

const MenuStatusActive = "active"

// MenuItem is the catalog's view of a food or beverage entry. Price is nil
// when the item has no price configured.
type MenuItem struct {
	ID       int          `json:"id"`
	Type     MenuItemType `json:"type"`
	Name     string       `json:"name"`
	Price    *float64     `json:"price"`
	Image    string       `json:"image"`
	Status   string       `json:"status"`
	Category string       `json:"category"`
}

func (m *MenuItem) IsActive() bool {
	return m.Status == MenuStatusActive
}
