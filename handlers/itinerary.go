package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wanderplan/services"
)

type ItineraryPDFRequest struct {
	TravelerName  string                   `json:"traveler_name"`
	Origin        string                   `json:"origin" binding:"required"`
	Destination   string                   `json:"destination" binding:"required"`
	DepartureDate string                   `json:"departure_date" binding:"required"`
	ReturnDate    string                   `json:"return_date" binding:"required"`
	Flight        services.Flight          `json:"flight"`
	Hotel         services.Hotel           `json:"hotel"`
	Activities    []services.ActivityPrice `json:"activities"`
}

// ItineraryPDFHandler renders a selected flight + hotel + activity list as a
// downloadable PDF. The document is returned inline; nothing is persisted.
func ItineraryPDFHandler(c *gin.Context) {
	var req ItineraryPDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := validateDateRange(req.DepartureDate, req.ReturnDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	depDate, _ := time.Parse("2006-01-02", req.DepartureDate)
	retDate, _ := time.Parse("2006-01-02", req.ReturnDate)
	numNights := int(retDate.Sub(depDate).Hours() / 24)

	totalCost := req.Flight.Price + req.Hotel.PricePerNight*float64(numNights)
	for _, a := range req.Activities {
		if a.Price != nil {
			totalCost += *a.Price
		}
	}

	pdfBytes, err := services.GeneratePDFBytes(services.PDFData{
		TravelerName:  req.TravelerName,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Flight:        req.Flight,
		Hotel:         req.Hotel,
		Activities:    req.Activities,
		NumNights:     numNights,
		TotalCost:     totalCost,
	})
	if err != nil {
		log.Printf("PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	filename := fmt.Sprintf("itinerary-%s-%s.pdf", req.Origin, req.Destination)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
