package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/acampos831/e-store-backend/internal/aws"
	"github.com/acampos831/e-store-backend/internal/orders"
	"github.com/acampos831/e-store-backend/internal/validation"
)

func (a *api) createOrder(c *gin.Context) {
	ctx := c.Request.Context()
	userID := a.userID(c)

	var req validation.CheckoutRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	draft := checkoutToDraft(req)

	orderID, err := a.orders.CreateClearingCart(ctx, userID, draft, a.cfg.CartsTable)
	if err != nil {
		var ve *orders.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_order", "msg": ve.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order_create_failed", "detail": err.Error()})
		return
	}

	// The order is durable at this point; the notification and the metric
	// are both best-effort.
	if a.publisher != nil {
		msg := aws.OrderPlacedMessage{
			UserID:        userID,
			OrderID:       orderID,
			Total:         *req.Total,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		if err := a.publisher.SendOrderPlaced(ctx, msg, map[string]string{"order_id": orderID}); err != nil {
			log.Printf("order placed notification failed for order=%s: %v", orderID, err)
		}
	}
	if a.metrics != nil {
		if err := a.metrics.Count(ctx, "OrdersPlaced", 1, nil); err != nil {
			log.Printf("metric emit failed: %v", err)
		}
	}

	c.Header("Location", fmt.Sprintf("/orders/%s", orderID))
	c.JSON(http.StatusCreated, gin.H{"orderId": orderID, "status": orders.StatusProcessing})
}

func (a *api) getOrder(c *gin.Context) {
	order, err := a.orders.Get(c.Request.Context(), a.userID(c), c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order_lookup_failed"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (a *api) confirmPayment(c *gin.Context) {
	var req validation.PaymentCallbackRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	ctx := c.Request.Context()
	orderID := c.Param("orderId")

	err := a.orders.UpdatePaymentStatus(ctx, a.userID(c), orderID, req.TransactionID, req.Status)
	switch {
	case err == nil:
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
		return
	case errors.Is(err, orders.ErrPaymentFinal):
		c.JSON(http.StatusConflict, gin.H{"error": "payment_already_final"})
		return
	default:
		var ve *orders.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_payment_status", "msg": ve.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment_update_failed", "detail": err.Error()})
		return
	}

	if a.metrics != nil {
		if err := a.metrics.Count(ctx, "PaymentConfirmations", 1, map[string]string{"Status": req.Status}); err != nil {
			log.Printf("metric emit failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "paymentStatus": req.Status})
}

// checkoutToDraft maps the HTTP payload onto the order engine's draft.
func checkoutToDraft(req validation.CheckoutRequest) orders.Draft {
	items := make([]orders.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.LineItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}

	return orders.Draft{
		CustomerName: req.CustomerName,
		Items:        items,
		ShippingAddress: orders.ShippingAddress{
			FullName:     req.ShippingAddress.FullName,
			Street:       req.ShippingAddress.Street,
			City:         req.ShippingAddress.City,
			PostalCode:   req.ShippingAddress.PostalCode,
			State:        req.ShippingAddress.State,
			Municipality: req.ShippingAddress.Municipality,
			Colonia:      req.ShippingAddress.Colonia,
		},
		ShippingMethod: orders.ShippingMethod{
			Carrier:           req.ShippingMethod.Carrier,
			Service:           req.ShippingMethod.Service,
			Cost:              req.ShippingMethod.Cost,
			EstimatedDelivery: req.ShippingMethod.EstimatedDelivery,
		},
		PaymentMethod: req.PaymentMethod,
		PaymentAmount: req.PaymentAmount,
		Subtotal:      req.Subtotal,
		Total:         req.Total,
	}
}
