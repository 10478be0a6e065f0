package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/events"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/metrics"
	"github.com/PHONEXAITY/SeeU-Cafe-Backend-sub001/models"
)

type migrateCartRequest struct {
	Items []models.AddCartItemRequest `json:"items"`
}

// getCart godoc
// @Summary Get the caller's cart
// @Tags cart
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Cart
// @Router /cart [get]
func (s *Server) getCart(c *fiber.Ctx) error {
	return c.JSON(s.carts.GetCart(c.UserContext(), userID(c)))
}

func (s *Server) getCartDetails(c *fiber.Ctx) error {
	return c.JSON(s.carts.GetCartWithDetails(c.UserContext(), userID(c)))
}

func (s *Server) getCartCount(c *fiber.Ctx) error {
	count, err := s.carts.GetCartItemCount(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) validateCart(c *fiber.Ctx) error {
	result, err := s.carts.ValidateCartItems(c.UserContext(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// addCartItem godoc
// @Summary Add a menu item to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param item body models.AddCartItemRequest true "Item"
// @Success 201 {object} models.Cart
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *fiber.Ctx) error {
	var req models.AddCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}

	cart, err := s.carts.AddToCart(c.UserContext(), userID(c), req)
	if err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	return c.Status(fiber.StatusCreated).JSON(cart)
}

func (s *Server) updateCartItem(c *fiber.Ctx) error {
	var req models.UpdateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}

	cart, err := s.carts.UpdateCartItem(c.UserContext(), userID(c), c.Params("id"), req.Quantity, req.Notes)
	if err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	return c.JSON(cart)
}

func (s *Server) removeCartItem(c *fiber.Ctx) error {
	cart, err := s.carts.RemoveFromCart(c.UserContext(), userID(c), c.Params("id"))
	if err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	return c.JSON(cart)
}

func (s *Server) clearCart(c *fiber.Ctx) error {
	uid := userID(c)
	if err := s.carts.ClearCart(c.UserContext(), uid); err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	s.logEvent(events.CartCleared, map[string]interface{}{"user_id": uid})
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

func (s *Server) migrateCart(c *fiber.Ctx) error {
	var req migrateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("body", "invalid JSON body")
	}

	uid := userID(c)
	result, err := s.carts.MigrateCartFromLocal(c.UserContext(), uid, req.Items)
	if err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("migrate").Inc()
	s.logEvent(events.CartMigrated, map[string]interface{}{
		"user_id":  uid,
		"received": len(req.Items),
		"dropped":  result.Dropped,
	})
	return c.JSON(result)
}
