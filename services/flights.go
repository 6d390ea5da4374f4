package services

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ─── Normalized Types ─────────────────────────────────────────────────────────

type Flight struct {
	ID          string  `json:"id"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	OutboundLeg Leg     `json:"outbound_leg"`
	ReturnLeg   Leg     `json:"return_leg"`
	BookingURL  string  `json:"booking_url,omitempty"`
}

type Leg struct {
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	Departure       string    `json:"departure"`
	Arrival         string    `json:"arrival"`
	DurationMinutes int       `json:"duration_minutes"`
	Stops           int       `json:"stops"`
	Segments        []Segment `json:"segments"`
}

type Segment struct {
	Origin          string `json:"origin"`
	Destination     string `json:"destination"`
	Departure       string `json:"departure"`
	Arrival         string `json:"arrival"`
	DurationMinutes int    `json:"duration_minutes"`
	FlightNumber    string `json:"flight_number"`
	Carrier         string `json:"carrier"`
}

// ─── Raw Provider Shapes ──────────────────────────────────────────────────────

// The flights provider returns a graph: itineraries, legs, segments, places and
// carriers live in separate arrays cross-referenced by id.

type FlightSearchResponse struct {
	Itineraries []RawItinerary `json:"itineraries"`
	Legs        []RawLeg       `json:"legs"`
	Segments    []RawSegment   `json:"segments"`
	Places      []RawPlace     `json:"places"`
	Carriers    []RawCarrier   `json:"carriers"`
}

type RawItinerary struct {
	ID             string             `json:"id"`
	OutboundLegID  string             `json:"outboundLegId"`
	InboundLegID   string             `json:"inboundLegId"`
	CheapestPrice  *RawPrice          `json:"cheapestPrice,omitempty"`
	PricingOptions []RawPricingOption `json:"pricingOptions,omitempty"`
}

type RawPricingOption struct {
	Price       RawPrice `json:"price"`
	DeeplinkURL string   `json:"deeplinkUrl,omitempty"`
}

// Amount is left untyped: providers send it as a number or a formatted string.
type RawPrice struct {
	Amount interface{} `json:"amount"`
}

type RawLeg struct {
	ID                 string  `json:"id"`
	OriginPlaceID      int64   `json:"originPlaceId"`
	DestinationPlaceID int64   `json:"destinationPlaceId"`
	Departure          string  `json:"departure"`
	Arrival            string  `json:"arrival"`
	DurationMinutes    int     `json:"durationInMinutes"`
	StopCount          int     `json:"stopCount"`
	SegmentIDs         []int64 `json:"segmentIds"`
}

type RawSegment struct {
	ID                 int64  `json:"id"`
	OriginPlaceID      int64  `json:"originPlaceId"`
	DestinationPlaceID int64  `json:"destinationPlaceId"`
	Departure          string `json:"departure"`
	Arrival            string `json:"arrival"`
	DurationMinutes    int    `json:"durationInMinutes"`
	FlightNumber       string `json:"flightNumber"`
	CarrierID          int64  `json:"marketingCarrierId"`
}

type RawPlace struct {
	ID       int64  `json:"id"`
	IATACode string `json:"iataCode"`
	Name     string `json:"name"`
}

type RawCarrier struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ─── Normalization ────────────────────────────────────────────────────────────

const maxFlightResults = 10

// flightsWebBase prefixes relative deep-link paths. InitFlights overrides it
// from configuration.
var flightsWebBase = "https://www.skyscanner.net"

// NormalizeFlights flattens a graph-shaped flight search response into
// self-contained flights sorted ascending by price, capped at 10. Unresolvable
// references degrade to empty legs/segments; nothing here returns an error — a
// partially-resolvable payload still yields a valid (if incomplete) list.
func NormalizeFlights(raw *FlightSearchResponse, currency string) []Flight {
	if raw == nil {
		return []Flight{}
	}

	legs := make(map[string]RawLeg, len(raw.Legs))
	for _, l := range raw.Legs {
		legs[l.ID] = l
	}
	segments := make(map[int64]RawSegment, len(raw.Segments))
	for _, s := range raw.Segments {
		segments[s.ID] = s
	}
	places := make(map[int64]RawPlace, len(raw.Places))
	for _, p := range raw.Places {
		places[p.ID] = p
	}
	carriers := make(map[int64]RawCarrier, len(raw.Carriers))
	for _, c := range raw.Carriers {
		carriers[c.ID] = c
	}

	itineraries := make([]RawItinerary, len(raw.Itineraries))
	copy(itineraries, raw.Itineraries)

	// Stable sort keeps provider order for equal prices; unpriced itineraries
	// sort last via +Inf.
	sort.SliceStable(itineraries, func(i, j int) bool {
		return itineraryPrice(itineraries[i]) < itineraryPrice(itineraries[j])
	})

	if len(itineraries) > maxFlightResults {
		itineraries = itineraries[:maxFlightResults]
	}

	flights := make([]Flight, 0, len(itineraries))
	for _, it := range itineraries {
		price := itineraryPrice(it)
		if math.IsInf(price, 1) {
			price = 0
		}

		f := Flight{
			ID:          it.ID,
			Price:       price,
			Currency:    currency,
			OutboundLeg: resolveLeg(it.OutboundLegID, legs, segments, places, carriers),
			ReturnLeg:   resolveLeg(it.InboundLegID, legs, segments, places, carriers),
		}

		if len(it.PricingOptions) > 0 {
			f.BookingURL = bookingURL(it.PricingOptions[0].DeeplinkURL)
		}

		flights = append(flights, f)
	}
	return flights
}

func itineraryPrice(it RawItinerary) float64 {
	if it.CheapestPrice != nil {
		if p := ExtractPrice(it.CheapestPrice.Amount); p != nil {
			return *p
		}
	}
	if len(it.PricingOptions) > 0 {
		if p := ExtractPrice(it.PricingOptions[0].Price.Amount); p != nil {
			return *p
		}
	}
	return math.Inf(1)
}

func resolveLeg(id string, legs map[string]RawLeg, segments map[int64]RawSegment, places map[int64]RawPlace, carriers map[int64]RawCarrier) Leg {
	rawLeg, ok := legs[id]
	if !ok {
		return Leg{Segments: []Segment{}}
	}

	leg := Leg{
		Origin:          placeCode(rawLeg.OriginPlaceID, places),
		Destination:     placeCode(rawLeg.DestinationPlaceID, places),
		Departure:       rawLeg.Departure,
		Arrival:         rawLeg.Arrival,
		DurationMinutes: rawLeg.DurationMinutes,
		Stops:           rawLeg.StopCount,
		Segments:        make([]Segment, 0, len(rawLeg.SegmentIDs)),
	}

	for _, segID := range rawLeg.SegmentIDs {
		rawSeg, ok := segments[segID]
		if !ok {
			continue
		}
		leg.Segments = append(leg.Segments, Segment{
			Origin:          placeCode(rawSeg.OriginPlaceID, places),
			Destination:     placeCode(rawSeg.DestinationPlaceID, places),
			Departure:       rawSeg.Departure,
			Arrival:         rawSeg.Arrival,
			DurationMinutes: rawSeg.DurationMinutes,
			FlightNumber:    rawSeg.FlightNumber,
			Carrier:         carrierName(rawSeg.CarrierID, carriers),
		})
	}
	return leg
}

// placeCode prefers the IATA code, then the display name, then the raw id.
func placeCode(id int64, places map[int64]RawPlace) string {
	p, ok := places[id]
	if !ok {
		return strconv.FormatInt(id, 10)
	}
	if p.IATACode != "" {
		return p.IATACode
	}
	if p.Name != "" {
		return p.Name
	}
	return strconv.FormatInt(id, 10)
}

func carrierName(id int64, carriers map[int64]RawCarrier) string {
	c, ok := carriers[id]
	if !ok {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	return c.Code
}

func bookingURL(deeplink string) string {
	if deeplink == "" {
		return ""
	}
	if strings.HasPrefix(deeplink, "http://") || strings.HasPrefix(deeplink, "https://") {
		return deeplink
	}
	return flightsWebBase + deeplink
}
