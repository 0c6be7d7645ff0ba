package handlers

import (
	"encoding/json"
	"io"
	"laundry_manager/internal/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	preferenceService services.PreferenceService
}

func NewPreferenceHandler(preferenceService services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

func (h *PreferenceHandler) userID(c *gin.Context) (string, bool) {
	user := currentUser(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return user.ID.String(), true
}

func (h *PreferenceHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	value, err := h.preferenceService.Get(c.Request.Context(), userID, c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

func (h *PreferenceHandler) Put(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 8192))
	if err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if err := h.preferenceService.Set(c.Request.Context(), userID, c.Param("key"), json.RawMessage(body)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "status": "stored"})
}

func (h *PreferenceHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	if err := h.preferenceService.Delete(c.Request.Context(), userID, c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "status": "deleted"})
}
