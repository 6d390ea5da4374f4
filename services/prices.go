package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// ─── Price Extraction ─────────────────────────────────────────────────────────

// priceRe matches the first money-like substring in free text: an optional
// thousands-grouped integer part with an optional two-decimal fraction.
var priceRe = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?`)

// ExtractPrice normalizes a heterogeneous price value (number, currency-formatted
// string, json.Number, or absent) into an amount. Returns nil when no numeric
// content is found; it never fails.
func ExtractPrice(v interface{}) *float64 {
	switch p := v.(type) {
	case nil:
		return nil
	case float64:
		return &p
	case float32:
		f := float64(p)
		return &f
	case int:
		f := float64(p)
		return &f
	case int64:
		f := float64(p)
		return &f
	case json.Number:
		if f, err := p.Float64(); err == nil {
			return &f
		}
		return extractPriceString(p.String())
	case string:
		return extractPriceString(p)
	default:
		return nil
	}
}

func extractPriceString(s string) *float64 {
	m := priceRe.FindString(s)
	if m == "" {
		return nil
	}
	m = strings.ReplaceAll(m, ",", "")
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FormatPrice renders an extracted price for display. nil means the price is
// unknown or varies; 0 means confirmed free.
func FormatPrice(p *float64) string {
	if p == nil {
		return "Varies"
	}
	if *p == 0 {
		return "Free"
	}
	s := strconv.FormatFloat(*p, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	return "$" + s
}

// ─── Activity Price Estimation ────────────────────────────────────────────────

type priceBucket struct {
	pattern *regexp.Regexp
	price   *float64 // nil = "varies, no fixed price"
}

func usd(v float64) *float64 { return &v }

// estimateBuckets is evaluated top to bottom; first match wins. Order matters:
// "theme park" must be classified before the free-outdoor rule sees "park",
// and tours before the shopping rule sees "market".
var estimateBuckets = []priceBucket{
	{regexp.MustCompile(`theme park|amusement park|water park|disney|universal studios`), usd(120)},
	{regexp.MustCompile(`observation|sky ?deck|viewing deck|tower|ferris wheel`), usd(35)},
	{regexp.MustCompile(`beach|park\b|garden|walk|hike|hiking|trail|sunset|sunrise|stroll|promenade|picnic|viewpoint|lookout`), usd(0)},
	{regexp.MustCompile(`museum|gallery|exhibit`), usd(25)},
	{regexp.MustCompile(`temple|shrine|church|cathedral|mosque|monastery|heritage|historic site|ruins`), usd(5)},
	{regexp.MustCompile(`breakfast|brunch|cafe|coffee`), usd(18)},
	{regexp.MustCompile(`lunch|street food|food stall`), usd(28)},
	{regexp.MustCompile(`dinner|fine dining|restaurant`), usd(48)},
	{regexp.MustCompile(`tour|excursion|day trip|sightseeing`), usd(55)},
	{regexp.MustCompile(`cruise|boat|ferry|snorkel|scuba|diving|kayak|surf|rafting`), usd(60)},
	{regexp.MustCompile(`class|workshop|lesson|cooking`), usd(75)},
	{regexp.MustCompile(`spa|massage|onsen|wellness|sauna|hot spring`), usd(85)},
	{regexp.MustCompile(`bar\b|nightlife|night club|speakeasy|pub\b|rooftop`), usd(30)},
	{regexp.MustCompile(`shopping|market|bazaar|mall|boutique|souvenir`), nil},
}

// defaultEstimate is the generic bracket for anything no rule recognizes.
var defaultEstimate = usd(40)

// EstimatePrice returns a deterministic price-bucket estimate for an activity
// label. It is the terminal fallback when every live source is exhausted and is
// never a real price. A nil result means "varies" (pure shopping references);
// 0 means a free activity.
func EstimatePrice(label string) *float64 {
	l := strings.ToLower(label)
	for _, b := range estimateBuckets {
		if b.pattern.MatchString(l) {
			return b.price
		}
	}
	return defaultEstimate
}
