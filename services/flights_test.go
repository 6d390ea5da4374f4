package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flightGraphFixture() *FlightSearchResponse {
	return &FlightSearchResponse{
		Itineraries: []RawItinerary{
			{
				ID:            "it-1",
				OutboundLegID: "leg-out",
				InboundLegID:  "leg-in",
				PricingOptions: []RawPricingOption{
					{Price: RawPrice{Amount: 420.0}, DeeplinkURL: "/transport/d/13542/2026-09-10/"},
				},
			},
		},
		Legs: []RawLeg{
			{
				ID:                 "leg-out",
				OriginPlaceID:      1,
				DestinationPlaceID: 2,
				Departure:          "2026-09-10T08:30:00",
				Arrival:            "2026-09-10T11:45:00",
				DurationMinutes:    195,
				StopCount:          1,
				SegmentIDs:         []int64{10, 11},
			},
			{
				ID:                 "leg-in",
				OriginPlaceID:      2,
				DestinationPlaceID: 1,
				Departure:          "2026-09-17T14:00:00",
				Arrival:            "2026-09-17T16:10:00",
				DurationMinutes:    130,
				StopCount:          0,
				SegmentIDs:         []int64{12},
			},
		},
		Segments: []RawSegment{
			{ID: 10, OriginPlaceID: 1, DestinationPlaceID: 3, Departure: "2026-09-10T08:30:00", Arrival: "2026-09-10T09:40:00", DurationMinutes: 70, FlightNumber: "1402", CarrierID: 100},
			{ID: 11, OriginPlaceID: 3, DestinationPlaceID: 2, Departure: "2026-09-10T10:20:00", Arrival: "2026-09-10T11:45:00", DurationMinutes: 85, FlightNumber: "886", CarrierID: 100},
			{ID: 12, OriginPlaceID: 2, DestinationPlaceID: 1, Departure: "2026-09-17T14:00:00", Arrival: "2026-09-17T16:10:00", DurationMinutes: 130, FlightNumber: "1403", CarrierID: 101},
		},
		Places: []RawPlace{
			{ID: 1, IATACode: "LHR", Name: "London Heathrow"},
			{ID: 2, IATACode: "CDG", Name: "Paris Charles de Gaulle"},
			{ID: 3, IATACode: "", Name: "Amsterdam Schiphol"},
		},
		Carriers: []RawCarrier{
			{ID: 100, Name: "British Airways", Code: "BA"},
			{ID: 101, Name: "", Code: "AF"},
		},
	}
}

func TestNormalizeFlights_ResolvesGraph(t *testing.T) {
	flights := NormalizeFlights(flightGraphFixture(), "USD")
	require.Len(t, flights, 1)

	f := flights[0]
	assert.Equal(t, "it-1", f.ID)
	assert.Equal(t, 420.0, f.Price)
	assert.Equal(t, "USD", f.Currency)
	assert.Equal(t, "https://www.skyscanner.net/transport/d/13542/2026-09-10/", f.BookingURL)

	out := f.OutboundLeg
	assert.Equal(t, "LHR", out.Origin)
	assert.Equal(t, "CDG", out.Destination)
	assert.Equal(t, 1, out.Stops)
	require.Len(t, out.Segments, 2)

	// Place with no IATA code falls back to its display name
	assert.Equal(t, "Amsterdam Schiphol", out.Segments[0].Destination)
	assert.Equal(t, "Amsterdam Schiphol", out.Segments[1].Origin)
	assert.Equal(t, "British Airways", out.Segments[0].Carrier)

	// Carrier with no display name falls back to its code
	require.Len(t, f.ReturnLeg.Segments, 1)
	assert.Equal(t, "AF", f.ReturnLeg.Segments[0].Carrier)
}

func TestNormalizeFlights_SortsAndCaps(t *testing.T) {
	raw := &FlightSearchResponse{}
	for i := 0; i < 500; i++ {
		raw.Itineraries = append(raw.Itineraries, RawItinerary{
			ID: fmt.Sprintf("it-%d", i),
			PricingOptions: []RawPricingOption{
				{Price: RawPrice{Amount: float64(1000 - i)}},
			},
		})
	}

	flights := NormalizeFlights(raw, "USD")
	require.Len(t, flights, 10)

	// The 10 lowest prices in the input are 501..510 (from the tail)
	for i, f := range flights {
		assert.Equal(t, float64(501+i), f.Price)
	}
}

func TestNormalizeFlights_StableTieBreak(t *testing.T) {
	raw := &FlightSearchResponse{
		Itineraries: []RawItinerary{
			{ID: "a", PricingOptions: []RawPricingOption{{Price: RawPrice{Amount: 300.0}}}},
			{ID: "b", PricingOptions: []RawPricingOption{{Price: RawPrice{Amount: 200.0}}}},
			{ID: "c", PricingOptions: []RawPricingOption{{Price: RawPrice{Amount: 200.0}}}},
			{ID: "d", PricingOptions: []RawPricingOption{{Price: RawPrice{Amount: 200.0}}}},
		},
	}

	flights := NormalizeFlights(raw, "USD")
	require.Len(t, flights, 4)
	// Equal prices keep provider order: b, c, d before a
	assert.Equal(t, []string{"b", "c", "d", "a"},
		[]string{flights[0].ID, flights[1].ID, flights[2].ID, flights[3].ID})
}

func TestNormalizeFlights_UnpricedSortsLast(t *testing.T) {
	raw := &FlightSearchResponse{
		Itineraries: []RawItinerary{
			{ID: "unpriced"},
			{ID: "priced", CheapestPrice: &RawPrice{Amount: "$150"}},
		},
	}

	flights := NormalizeFlights(raw, "USD")
	require.Len(t, flights, 2)
	assert.Equal(t, "priced", flights[0].ID)
	assert.Equal(t, 150.0, flights[0].Price)
	assert.Equal(t, "unpriced", flights[1].ID)
	assert.Equal(t, 0.0, flights[1].Price)
}

func TestNormalizeFlights_MissingReferencesDegrade(t *testing.T) {
	raw := &FlightSearchResponse{
		Itineraries: []RawItinerary{
			{
				ID:            "it-1",
				OutboundLegID: "leg-known",
				InboundLegID:  "leg-missing",
				CheapestPrice: &RawPrice{Amount: 99.0},
			},
		},
		Legs: []RawLeg{
			{
				ID:                 "leg-known",
				OriginPlaceID:      7,
				DestinationPlaceID: 8,
				Departure:          "2026-09-10T08:00:00",
				Arrival:            "2026-09-10T10:00:00",
				DurationMinutes:    120,
				SegmentIDs:         []int64{55, 56}, // neither segment exists
			},
		},
	}

	flights := NormalizeFlights(raw, "EUR")
	require.Len(t, flights, 1)

	out := flights[0].OutboundLeg
	// Leg-level fields survive; unresolved segments are dropped, not fatal
	assert.Equal(t, "2026-09-10T08:00:00", out.Departure)
	assert.Empty(t, out.Segments)
	// Unknown place ids degrade to the raw id as a display string
	assert.Equal(t, "7", out.Origin)
	assert.Equal(t, "8", out.Destination)

	// Missing inbound leg degrades to an empty placeholder
	assert.Equal(t, Leg{Segments: []Segment{}}, flights[0].ReturnLeg)
}

func TestNormalizeFlights_NilInput(t *testing.T) {
	assert.Empty(t, NormalizeFlights(nil, "USD"))
}
