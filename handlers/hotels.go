package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wanderplan/services"
)

var (
	errInvalidDeparture      = errors.New("Invalid departure date format. Use YYYY-MM-DD")
	errInvalidReturn         = errors.New("Invalid return date format. Use YYYY-MM-DD")
	errReturnBeforeDeparture = errors.New("Return date must be after departure date")
)

type HotelSearchRequest struct {
	Destination string `json:"destination" binding:"required"`
	CheckIn     string `json:"check_in" binding:"required"`
	CheckOut    string `json:"check_out" binding:"required"`
	Adults      int    `json:"adults"`
	Preferences string `json:"preferences"`
}

type HotelSearchResponse struct {
	Hotels []services.Hotel `json:"hotels"`
}

func HotelsHandler(c *gin.Context) {
	var req HotelSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Destination = strings.TrimSpace(req.Destination)
	if req.Adults <= 0 {
		req.Adults = 1
	}
	if err := validateDateRange(req.CheckIn, req.CheckOut); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := services.GetSearchClient()
	raw, err := client.SearchHotels(c.Request.Context(), req.Destination, req.CheckIn, req.CheckOut, req.Adults)
	if err != nil {
		// Hotels have no alternate provider; a total failure surfaces directly.
		log.Printf("hotel search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Hotel provider unavailable: " + err.Error()})
		return
	}

	hotels := services.NormalizeHotels(raw, req.Preferences)
	log.Printf("hotel search %s: %d listings retained", req.Destination, len(hotels))

	c.JSON(http.StatusOK, HotelSearchResponse{Hotels: hotels})
}
