package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/acampos831/e-store-backend/internal/users"
	"github.com/acampos831/e-store-backend/internal/validation"
)

func (a *api) ensureProfile(c *gin.Context) {
	var req validation.EnsureProfileRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	created, err := a.users.EnsureProfile(c.Request.Context(), a.userID(c), req.Email, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_save_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (a *api) getProfile(c *gin.Context) {
	profile, err := a.users.Get(c.Request.Context(), a.userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_lookup_failed"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userId":      profile.UserID,
		"email":       profile.Email,
		"displayName": profile.DisplayName,
		"role":        profile.Role,
	})
}

func (a *api) updateRole(c *gin.Context) {
	var req validation.RoleRequest
	if err := validation.BindAndValidate(c, &req, a.validate); err != nil {
		return
	}

	err := a.users.UpdateRole(c.Request.Context(), c.Param("userId"), req.Role)
	if err != nil {
		if errors.Is(err, users.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "role_update_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": c.Param("userId"), "role": req.Role})
}
