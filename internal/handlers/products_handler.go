package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/acampos831/e-store-backend/internal/catalog"
	"github.com/acampos831/e-store-backend/internal/validation"
)

func (a *api) listProducts(c *gin.Context) {
	params := catalog.ListParams{
		Page:     intQuery(c, "page", 1),
		PerPage:  intQuery(c, "perPage", 0),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	result, err := a.catalog.List(c.Request.Context(), params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog_list_failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *api) getProduct(c *gin.Context) {
	p, err := a.catalog.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog_lookup_failed"})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *api) putProduct(c *gin.Context) {
	var req validation.ProductRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	p := catalog.Product{
		ID:          c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Image:       req.Image,
		Price:       req.Price,
		Rating:      req.Rating,
		Stock:       req.Stock,
	}

	if err := a.catalog.Put(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product_save_failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *api) deleteProduct(c *gin.Context) {
	if err := a.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product_delete_failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
