package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wanderplan/services"
)

type FlightSearchRequest struct {
	Origin        string `json:"origin" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	ReturnDate    string `json:"return_date" binding:"required"`
	Passengers    int    `json:"passengers"`
	Currency      string `json:"currency"`
}

type FlightSearchResponse struct {
	Flights []services.Flight `json:"flights"`
}

func FlightsHandler(c *gin.Context) {
	var req FlightSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))
	if req.Passengers <= 0 {
		req.Passengers = 1
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	if len(req.Origin) != 3 || len(req.Destination) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Airport codes must be exactly 3 characters (e.g. LHR, JFK)"})
		return
	}
	if err := validateDateRange(req.DepartureDate, req.ReturnDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := services.GetFlightsClient()
	raw, err := client.SearchRoundTrip(c.Request.Context(),
		req.Origin, req.Destination, req.DepartureDate, req.ReturnDate,
		req.Passengers, req.Currency)
	if err != nil {
		log.Printf("flight search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Flight provider unavailable: " + err.Error()})
		return
	}

	flights := services.NormalizeFlights(raw, req.Currency)
	log.Printf("flight search %s-%s: %d itineraries normalized", req.Origin, req.Destination, len(flights))

	c.JSON(http.StatusOK, FlightSearchResponse{Flights: flights})
}

func validateDateRange(departure, ret string) error {
	depDate, err := time.Parse("2006-01-02", departure)
	if err != nil {
		return errInvalidDeparture
	}
	retDate, err := time.Parse("2006-01-02", ret)
	if err != nil {
		return errInvalidReturn
	}
	if !retDate.After(depDate) {
		return errReturnBeforeDeparture
	}
	return nil
}
