package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/acampos831/e-store-backend/internal/shipping"
	"github.com/acampos831/e-store-backend/internal/validation"
)

func (a *api) quoteShipping(c *gin.Context) {
	var req validation.QuoteRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	rates, err := a.shipping.Calculate(shipping.Request{
		PostalCode: req.PostalCode,
		Weight:     req.Weight,
		Length:     req.Length,
		Width:      req.Width,
		Height:     req.Height,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_quote_request", "msg": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rates": rates})
}
