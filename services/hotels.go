package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ─── Normalized Types ─────────────────────────────────────────────────────────

type Hotel struct {
	Name           string   `json:"name"`
	Type           string   `json:"type,omitempty"`
	Rating         float64  `json:"rating"`
	Reviews        int      `json:"reviews"`
	HotelClass     int      `json:"hotel_class,omitempty"`
	PricePerNight  float64  `json:"price_per_night"`
	PriceFormatted string   `json:"price_formatted,omitempty"`
	TotalPrice     float64  `json:"total_price,omitempty"`
	Amenities      []string `json:"amenities,omitempty"`
	Link           string   `json:"link,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
}

// ─── Raw Provider Shapes ──────────────────────────────────────────────────────

type HotelSearchResponse struct {
	Properties []RawProperty `json:"properties"`
	Ads        []RawHotelAd  `json:"ads,omitempty"`
}

type RawProperty struct {
	Type                string       `json:"type"`
	Name                string       `json:"name"`
	Link                string       `json:"link,omitempty"`
	RatePerNight        *RawRate     `json:"rate_per_night,omitempty"`
	TotalRate           *RawRate     `json:"total_rate,omitempty"`
	Images              []RawImage   `json:"images,omitempty"`
	OverallRating       float64      `json:"overall_rating,omitempty"`
	Reviews             int          `json:"reviews,omitempty"`
	HotelClass          string       `json:"hotel_class,omitempty"`
	ExtractedHotelClass int          `json:"extracted_hotel_class,omitempty"`
	Amenities           []string     `json:"amenities,omitempty"`
	GPSCoordinates      *RawGeoPoint `json:"gps_coordinates,omitempty"`
	CheckInTime         string       `json:"check_in_time,omitempty"`
	CheckOutTime        string       `json:"check_out_time,omitempty"`
}

type RawRate struct {
	Lowest                   string  `json:"lowest,omitempty"`
	ExtractedLowest          float64 `json:"extracted_lowest,omitempty"`
	BeforeTaxesFees          string  `json:"before_taxes_fees,omitempty"`
	ExtractedBeforeTaxesFees float64 `json:"extracted_before_taxes_fees,omitempty"`
}

type RawImage struct {
	Thumbnail     string `json:"thumbnail,omitempty"`
	OriginalImage string `json:"original_image,omitempty"`
}

type RawGeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawHotelAd is the flatter shape some providers return alongside properties.
type RawHotelAd struct {
	Name           string  `json:"name"`
	Link           string  `json:"link,omitempty"`
	Price          string  `json:"price,omitempty"`
	ExtractedPrice float64 `json:"extracted_price,omitempty"`
	Thumbnail      string  `json:"thumbnail,omitempty"`
	OverallRating  float64 `json:"overall_rating,omitempty"`
	Reviews        int     `json:"reviews,omitempty"`
	HotelClass     int     `json:"hotel_class,omitempty"`
	Amenities      string  `json:"amenities,omitempty"`
}

// ─── Preference Parsing ───────────────────────────────────────────────────────

// HotelFilter is derived once per request from the free-text preference string.
// MinStars/MaxStars of 0 mean the bound is open.
type HotelFilter struct {
	ExcludedTypes          []string
	MinStars               int
	MaxStars               int
	ExcludeVacationRentals bool
	Luxury                 bool
	Budget                 bool
}

// typeSynonyms widens name-based exclusion: excluding hostels also drops
// backpacker and dorm-style listings.
var typeSynonyms = map[string][]string{
	"hostel": {"hostel", "backpacker", "dormitory", "dorm"},
	"motel":  {"motel"},
}

var (
	noHostelsRe  = regexp.MustCompile(`no hostels?|without hostels?|avoid hostels?|exclude hostels?|don'?t (?:want|like) hostels?|no backpacker`)
	noMotelsRe   = regexp.MustCompile(`no motels?|without motels?|avoid motels?|exclude motels?`)
	noRentalsRe  = regexp.MustCompile(`no (?:vacation rentals?|airbnbs?|short.?term rentals?)|avoid (?:vacation rentals?|airbnbs?)|hotels? only`)
	noBudgetRe   = regexp.MustCompile(`no (?:budget|cheap) |avoid (?:budget|cheap)|nothing (?:budget|cheap)`)
	minStarsRe   = regexp.MustCompile(`(\d)\s*[- ]?stars? (?:or above|or higher|or better|and above|minimum|\+)|minimum (?:of )?(\d)\s*[- ]?stars?|at least (\d)\s*[- ]?stars?|(\d)\+\s*[- ]?stars?`)
	exactStarsRe = regexp.MustCompile(`only (\d)\s*[- ]?stars?|exactly (\d)\s*[- ]?stars?`)
	luxuryRe     = regexp.MustCompile(`luxur|high.?end|5.?star|upscale|premium`)
	budgetRe     = regexp.MustCompile(`budget.?friendly|\bbudget\b|\bcheap\b|affordable|inexpensive|low.?cost`)
)

// ParseHotelPreferences converts a free-text preference string into a
// structured filter. Rules are non-exclusive; several may fire on one input.
// Star-bound asymmetry is deliberate: luxury raises the floor, budget caps the
// ceiling but only when no explicit floor was already set.
func ParseHotelPreferences(text string) HotelFilter {
	f := HotelFilter{}
	t := strings.ToLower(text)
	if strings.TrimSpace(t) == "" {
		return f
	}

	if noHostelsRe.MatchString(t) {
		f.ExcludedTypes = append(f.ExcludedTypes, "hostel")
	}
	if noMotelsRe.MatchString(t) {
		f.ExcludedTypes = append(f.ExcludedTypes, "motel")
	}
	if noRentalsRe.MatchString(t) {
		f.ExcludeVacationRentals = true
	}
	if noBudgetRe.MatchString(t) && f.MinStars < 3 {
		f.MinStars = 3
	}

	// First matching star-bound rule wins; "only N star" pins both bounds.
	if m := exactStarsRe.FindStringSubmatch(t); m != nil {
		if n := firstDigit(m[1:]); n > 0 {
			f.MinStars = n
			f.MaxStars = n
		}
	} else if m := minStarsRe.FindStringSubmatch(t); m != nil {
		if n := firstDigit(m[1:]); n > 0 && n > f.MinStars {
			f.MinStars = n
		}
	}

	if luxuryRe.MatchString(t) {
		f.Luxury = true
		if f.MinStars < 4 {
			f.MinStars = 4
		}
	}

	if budgetRe.MatchString(t) {
		f.Budget = true
		// An explicit minimum overrides budget intent, never the reverse.
		if f.MinStars == 0 {
			f.MaxStars = 3
		}
	}

	return f
}

func firstDigit(groups []string) int {
	for _, g := range groups {
		if g == "" {
			continue
		}
		n, err := strconv.Atoi(g)
		if err == nil {
			return n
		}
	}
	return 0
}

// ─── Filtering & Normalization ────────────────────────────────────────────────

const maxHotelResults = 10

// NormalizeHotels filters raw listings against the parsed preference string and
// normalizes the survivors, sorted ascending by nightly price and capped at 10.
// Zero-priced and unpriced listings are dropped, never surfaced at $0.
func NormalizeHotels(raw *HotelSearchResponse, preferenceText string) []Hotel {
	if raw == nil {
		return []Hotel{}
	}
	filter := ParseHotelPreferences(preferenceText)

	hotels := make([]Hotel, 0, len(raw.Properties))
	for _, p := range raw.Properties {
		h, ok := normalizeProperty(p, filter)
		if !ok {
			continue
		}
		hotels = append(hotels, h)
	}
	for _, ad := range raw.Ads {
		h, ok := normalizeAd(ad, filter)
		if !ok {
			continue
		}
		hotels = append(hotels, h)
	}

	sort.SliceStable(hotels, func(i, j int) bool {
		return hotels[i].PricePerNight < hotels[j].PricePerNight
	})
	if len(hotels) > maxHotelResults {
		hotels = hotels[:maxHotelResults]
	}
	return hotels
}

func normalizeProperty(p RawProperty, filter HotelFilter) (Hotel, bool) {
	stars := p.ExtractedHotelClass
	if stars == 0 {
		stars = parseHotelClass(p.HotelClass)
	}
	if !passesFilter(p.Name, p.Type, stars, filter) {
		return Hotel{}, false
	}

	price := ratePrice(p.RatePerNight)
	if price <= 0 {
		return Hotel{}, false
	}

	h := Hotel{
		Name:          p.Name,
		Type:          p.Type,
		Rating:        p.OverallRating,
		Reviews:       p.Reviews,
		HotelClass:    stars,
		PricePerNight: price,
		TotalPrice:    ratePrice(p.TotalRate),
		Amenities:     p.Amenities,
		Link:          p.Link,
	}
	if p.RatePerNight != nil && p.RatePerNight.Lowest != "" {
		h.PriceFormatted = p.RatePerNight.Lowest
	} else {
		h.PriceFormatted = FormatPrice(&price)
	}
	for _, img := range p.Images {
		if img.Thumbnail != "" {
			h.Thumbnail = img.Thumbnail
			break
		}
		if img.OriginalImage != "" {
			h.Thumbnail = img.OriginalImage
			break
		}
	}
	return h, true
}

func normalizeAd(ad RawHotelAd, filter HotelFilter) (Hotel, bool) {
	if !passesFilter(ad.Name, "", ad.HotelClass, filter) {
		return Hotel{}, false
	}

	price := ad.ExtractedPrice
	if price <= 0 {
		if p := ExtractPrice(ad.Price); p != nil {
			price = *p
		}
	}
	if price <= 0 {
		return Hotel{}, false
	}

	h := Hotel{
		Name:          ad.Name,
		Rating:        ad.OverallRating,
		Reviews:       ad.Reviews,
		HotelClass:    ad.HotelClass,
		PricePerNight: price,
		Link:          ad.Link,
		Thumbnail:     ad.Thumbnail,
	}
	if ad.Price != "" {
		h.PriceFormatted = ad.Price
	} else {
		h.PriceFormatted = FormatPrice(&price)
	}
	if ad.Amenities != "" {
		h.Amenities = strings.Split(ad.Amenities, ", ")
	}
	return h, true
}

// passesFilter applies the preference predicate to one listing. Name-based type
// exclusion is independent of the star check and never overridden by it.
func passesFilter(name, propertyType string, stars int, filter HotelFilter) bool {
	lowerName := strings.ToLower(name)
	for _, excluded := range filter.ExcludedTypes {
		for _, syn := range typeSynonyms[excluded] {
			if strings.Contains(lowerName, syn) {
				return false
			}
		}
	}

	if filter.ExcludeVacationRentals && strings.Contains(strings.ToLower(propertyType), "vacation rental") {
		return false
	}

	if stars > 0 {
		if filter.MinStars > 0 && stars < filter.MinStars {
			return false
		}
		if filter.MaxStars > 0 && stars > filter.MaxStars {
			return false
		}
	} else if filter.Luxury {
		// Luxury seekers get no unrated listings; everyone else tolerates them.
		return false
	}

	return true
}

func ratePrice(r *RawRate) float64 {
	if r == nil {
		return 0
	}
	if r.ExtractedLowest > 0 {
		return r.ExtractedLowest
	}
	return r.ExtractedBeforeTaxesFees
}

var hotelClassRe = regexp.MustCompile(`(\d)`)

// parseHotelClass reads a star count out of strings like "4-star hotel".
func parseHotelClass(s string) int {
	m := hotelClassRe.FindString(s)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	if n < 1 || n > 5 {
		return 0
	}
	return n
}
