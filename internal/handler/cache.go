package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/service"
	"github.com/projecthub/projecthub/pkg/logger"
	"go.uber.org/zap"
)

// CacheHandler exposes admin-only cache management
type CacheHandler struct {
	cacheService *service.CacheService
}

func NewCacheHandler(cacheService *service.CacheService) *CacheHandler {
	return &CacheHandler{cacheService: cacheService}
}

// Health reports cache connectivity
func (h *CacheHandler) Health(c *gin.Context) {
	if !h.cacheService.Enabled() {
		c.JSON(http.StatusOK, gin.H{"status": "disabled"})
		return
	}

	if err := h.cacheService.Ping(c.Request.Context()); err != nil {
		logger.GetLogger().Warn("Cache health check failed",
			zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// InvalidateProjects drops every cached project listing page
func (h *CacheHandler) InvalidateProjects(c *gin.Context) {
	deleted, err := h.cacheService.InvalidatePrefix(c.Request.Context(), constants.CacheKeyProjects)
	if err != nil {
		logger.GetLogger().Error("Failed to invalidate project cache",
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Failed to invalidate cache", nil))
		return
	}

	logger.GetLogger().Info("Project cache invalidated",
		zap.Int64("deleted_keys", deleted))

	c.JSON(http.StatusOK, constants.BuildDataResponse("Cache invalidated successfully", gin.H{
		"deleted_keys": deleted,
	}))
}

// ClearAll drops every cache entry owned by this service
func (h *CacheHandler) ClearAll(c *gin.Context) {
	deleted, err := h.cacheService.Clear(c.Request.Context())
	if err != nil {
		logger.GetLogger().Error("Failed to clear cache",
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse("Failed to clear cache", nil))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse("Cache cleared successfully", gin.H{
		"deleted_keys": deleted,
	}))
}
