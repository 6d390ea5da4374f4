package handlers

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"wanderplan/services"
)

type PlanRequest struct {
	Query     string   `json:"query" binding:"required"`
	VideoURLs []string `json:"video_urls"`
}

type PlanResponse struct {
	PlanID     string                   `json:"plan_id"`
	Trip       *services.TripQuery      `json:"trip"`
	Flights    []services.Flight        `json:"flights"`
	Hotels     []services.Hotel         `json:"hotels"`
	Activities []services.ActivityPrice `json:"activities"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// PlanHandler composes the full pipeline: LLM parameter extraction, then
// concurrent flight normalization, hotel normalization, and batch activity
// price resolution. Flight and hotel provider failures degrade to empty lists
// with a warning; activity resolution never fails.
func PlanHandler(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	llm := services.GetLLMClient()
	trip, err := llm.ExtractTripParams(c.Request.Context(), req.Query, req.VideoURLs)
	if err != nil {
		log.Printf("trip extraction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not understand the trip request: " + err.Error()})
		return
	}

	if trip.Destination == "" || trip.DepartureDate == "" || trip.ReturnDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trip request is missing a destination or travel dates"})
		return
	}

	ctx := c.Request.Context()
	resp := PlanResponse{
		PlanID:     uuid.New().String(),
		Trip:       trip,
		Flights:    []services.Flight{},
		Hotels:     []services.Hotel{},
		Activities: []services.ActivityPrice{},
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	warn := func(msg string) {
		mu.Lock()
		resp.Warnings = append(resp.Warnings, msg)
		mu.Unlock()
	}

	destAirport := trip.DestinationAirport
	if destAirport == "" {
		destAirport = trip.Destination
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if trip.Origin == "" {
			warn("No origin airport given — flight search skipped")
			return
		}
		raw, err := services.GetFlightsClient().SearchRoundTrip(ctx,
			trip.Origin, destAirport, trip.DepartureDate, trip.ReturnDate, trip.Travelers, "USD")
		if err != nil {
			log.Printf("plan: flight search failed: %v", err)
			warn("Flight provider unavailable")
			return
		}
		resp.Flights = services.NormalizeFlights(raw, "USD")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		raw, err := services.GetSearchClient().SearchHotels(ctx,
			trip.Destination, trip.DepartureDate, trip.ReturnDate, trip.Travelers)
		if err != nil {
			log.Printf("plan: hotel search failed: %v", err)
			warn("Hotel provider unavailable")
			return
		}
		resp.Hotels = services.NormalizeHotels(raw, trip.HotelPreferences)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if len(trip.Activities) == 0 {
			return
		}
		resp.Activities = services.GetResolver().ResolvePrices(ctx, trip.Activities, trip.Destination)
	}()

	wg.Wait()

	log.Printf("plan %s: %d flights, %d hotels, %d activities",
		resp.PlanID, len(resp.Flights), len(resp.Hotels), len(resp.Activities))
	c.JSON(http.StatusOK, resp)
}
