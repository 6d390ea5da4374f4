package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wanderplan/services"
)

type ActivityPricesRequest struct {
	Activities  []string `json:"activities" binding:"required,min=1"`
	Destination string   `json:"destination" binding:"required"`
}

type ActivityPricesResponse struct {
	Activities []services.ActivityPrice `json:"activities"`
}

func ActivityPricesHandler(c *gin.Context) {
	var req ActivityPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Destination = strings.TrimSpace(req.Destination)

	resolver := services.GetResolver()
	results := resolver.ResolvePrices(c.Request.Context(), req.Activities, req.Destination)

	c.JSON(http.StatusOK, ActivityPricesResponse{Activities: results})
}
