package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/andrelmp/inbox-guardian/internal/ratelimit"
	"github.com/andrelmp/inbox-guardian/internal/storage/postgres"
	"github.com/andrelmp/inbox-guardian/internal/tenant"
)

type TenantHandler struct {
	repo   *postgres.TenantRepository
	usage  ratelimit.UsageReporter
	logger *zap.Logger
}

func NewTenantHandler(repo *postgres.TenantRepository, usage ratelimit.UsageReporter, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{repo: repo, usage: usage, logger: logger}
}

func (h *TenantHandler) ListTenants(c *gin.Context) {
	ctx := c.Request.Context()

	clients, err := h.repo.ListClients(ctx)
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tenants"})
		return
	}

	workspaces, err := h.repo.ListWorkspaces(ctx)
	if err != nil {
		h.logger.Error("Failed to list workspaces", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tenants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":    clients,
		"workspaces": workspaces,
	})
}

// GetTenant returns the normalized view of either tenant variant.
func (h *TenantHandler) GetTenant(c *gin.Context) {
	record, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, postgres.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
			return
		}
		h.logger.Error("Failed to get tenant", zap.String("tenant_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tenant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":   record.Kind,
		"tenant": tenant.Normalize(record),
	})
}

func (h *TenantHandler) GetTenantUsage(c *gin.Context) {
	id := c.Param("id")

	record, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, postgres.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
			return
		}
		h.logger.Error("Failed to get tenant", zap.String("tenant_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tenant"})
		return
	}

	count, resetIn, err := h.usage.Usage(c.Request.Context(), record.ID())
	if err != nil {
		h.logger.Error("Failed to read usage", zap.String("tenant_id", id), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Usage unavailable"})
		return
	}

	quota := ratelimit.QuotaForTier(record.Subscription().Tier)
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":    record.ID(),
		"used":         count,
		"tenant_limit": quota.TenantLimit,
		"sender_limit": quota.SenderLimit,
		"window":       quota.Window.String(),
		"reset_in":     resetIn.String(),
	})
}
