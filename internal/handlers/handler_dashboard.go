package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/fieldops_backend/internal/core/ports/services"
	"github.com/SscSPs/fieldops_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvc) {
	rg.GET("/dashboard", func(c *gin.Context) { getDashboard(c, dashboardService) })
}

// getDashboard godoc
// @Summary Dashboard
// @Description Recent work orders and invoices with open and pending counts.
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func getDashboard(c *gin.Context, dashboardService portssvc.DashboardSvc) {
	d, err := dashboardService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardResponse(d))
}
