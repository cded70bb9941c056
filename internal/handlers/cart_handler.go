package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/acampos831/e-store-backend/internal/cart"
	"github.com/acampos831/e-store-backend/internal/validation"
)

func (a *api) getCart(c *gin.Context) {
	userID := a.userID(c)

	current, err := a.carts.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_lookup_failed"})
		return
	}
	if current == nil {
		// no cart yet is a normal state: present it as empty
		current = &cart.Cart{UserID: userID, Items: []cart.Item{}}
	}
	c.JSON(http.StatusOK, current)
}

func (a *api) addCartItem(c *gin.Context) {
	var req validation.CartItemRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	item := cart.Item{
		ProductID: req.ProductID,
		Title:     req.Title,
		Price:     req.Price,
		Quantity:  req.Quantity,
		Image:     req.Image,
	}

	if err := a.carts.AddItem(c.Request.Context(), a.userID(c), item); err != nil {
		a.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (a *api) setCartItemQuantity(c *gin.Context) {
	var req validation.QuantityRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	err := a.carts.SetQuantity(c.Request.Context(), a.userID(c), c.Param("productId"), *req.Quantity)
	if err != nil {
		a.writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (a *api) removeCartItem(c *gin.Context) {
	if err := a.carts.RemoveItem(c.Request.Context(), a.userID(c), c.Param("productId")); err != nil {
		a.writeCartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) clearCart(c *gin.Context) {
	if err := a.carts.Clear(c.Request.Context(), a.userID(c)); err != nil {
		a.writeCartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart_not_found"})
	case errors.Is(err, cart.ErrCartConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "cart_conflict", "msg": "cart changed concurrently, retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cart_store_failed", "detail": err.Error()})
	}
}
