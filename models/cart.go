package models

// CartLine references exactly one of FoodMenuID or BeverageMenuID.
type CartLine struct {
	ID             string  `json:"id"`
	FoodMenuID     *int    `json:"food_menu_id"`
	BeverageMenuID *int    `json:"beverage_menu_id"`
	Quantity       int     `json:"quantity"`
	Notes          *string `json:"notes"`
}

// SameItem reports whether both lines point at the same menu entry.
func (l CartLine) SameItem(o CartLine) bool {
	if l.FoodMenuID != nil && o.FoodMenuID != nil {
		return *l.FoodMenuID == *o.FoodMenuID
	}
	if l.BeverageMenuID != nil && o.BeverageMenuID != nil {
		return *l.BeverageMenuID == *o.BeverageMenuID
	}
	return false
}

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartLine `json:"items"`
}

type AddCartItemRequest struct {
	FoodMenuID     *int    `json:"food_menu_id"`
	BeverageMenuID *int    `json:"beverage_menu_id"`
	Quantity       int     `json:"quantity"`
	Notes          *string `json:"notes"`
}

type UpdateCartItemRequest struct {
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes"`
}

type CartLineDetail struct {
	CartLine
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Category string  `json:"category"`
	Subtotal float64 `json:"subtotal"`
}

type CartDetails struct {
	Items      []CartLineDetail `json:"items"`
	TotalItems int              `json:"total_items"`
	Subtotal   float64          `json:"subtotal"`
}

type CartItemValidation struct {
	ItemID string `json:"item_id"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
}

type CartValidation struct {
	Valid        bool                 `json:"valid"`
	InvalidItems int                  `json:"invalid_items"`
	Details      []CartItemValidation `json:"details"`
}

type CartMigration struct {
	Cart    *Cart `json:"cart"`
	Dropped int   `json:"dropped"`
}
