package services

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
)

// ─── Types ────────────────────────────────────────────────────────────────────

// ActivityPrice is the best-effort price record for one activity. A nil Price
// means "unknown/varies" and is distinct from 0, which means confirmed free.
type ActivityPrice struct {
	Activity       string   `json:"activity"`
	Price          *float64 `json:"price"`
	PriceFormatted string   `json:"price_formatted"`
	Source         string   `json:"source"`
	Link           string   `json:"link,omitempty"`
	Thumbnail      string   `json:"thumbnail,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	Reviews        int      `json:"reviews,omitempty"`
	Description    string   `json:"description,omitempty"`
}

// ActivitySearcher is the slice of the search provider the resolver needs.
type ActivitySearcher interface {
	Search(ctx context.Context, query string) (*SearchResults, error)
	SearchShopping(ctx context.Context, query string) (*ShoppingResults, error)
}

// ─── Resolver ─────────────────────────────────────────────────────────────────

// Resolver attaches a price, link and descriptive metadata to activity names by
// trying successively less-authoritative sources: knowledge panel, local
// listings, organic results, shopping listings, and finally a heuristic
// estimate. It never returns an error; a provider outage degrades quality.
type Resolver struct {
	search ActivitySearcher
}

var activityResolver *Resolver

func InitResolver() {
	activityResolver = NewResolver(GetSearchClient())
}

func GetResolver() *Resolver {
	return activityResolver
}

func NewResolver(search ActivitySearcher) *Resolver {
	return &Resolver{search: search}
}

// aggregatorDomains are third-party listing/review sites that rarely represent
// the authoritative source for a venue; organic links from them are taken only
// when nothing better exists.
var aggregatorDomains = []string{
	"tripadvisor",
	"yelp",
	"booking.com",
	"expedia",
	"kayak",
	"trip.com",
	"viator",
	"getyourguide",
	"klook",
	"travelocity",
	"hotels.com",
}

// organicPriceRe matches "$NN[.NN]" or "NN[.NN] USD/dollars" inside a snippet.
var organicPriceRe = regexp.MustCompile(`\$\s?(\d+(?:\.\d{1,2})?)|(\d+(?:\.\d{1,2})?)\s?(?:USD|usd|dollars)`)

// ResolvePrices resolves a batch of activities concurrently. The output is
// one-to-one with the input, same order and length; a failure resolving one
// activity never delays or fails the others.
func (r *Resolver) ResolvePrices(ctx context.Context, activities []string, destination string) []ActivityPrice {
	results := make([]ActivityPrice, len(activities))
	var wg sync.WaitGroup
	for i, name := range activities {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i] = r.ResolvePrice(ctx, name, destination)
		}(i, name)
	}
	wg.Wait()
	return results
}

// ResolvePrice resolves one activity. It guarantees a result record: if the
// pipeline fails in any unexpected way the heuristic estimate is returned
// instead of propagating the error.
func (r *Resolver) ResolvePrice(ctx context.Context, activity, destination string) (result ActivityPrice) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("activity price resolution panicked for %q: %v — using estimate", activity, rec)
			result = estimateResult(activity)
		}
	}()

	result = ActivityPrice{Activity: activity}

	if r.search != nil {
		r.resolveFromWeb(ctx, &result, activity, destination)
		if result.Price == nil {
			r.resolveFromShopping(ctx, &result, activity, destination)
		}
	}

	// Terminal fallback: every live source exhausted.
	if result.Price == nil && result.Source == "" {
		est := estimateResult(activity)
		est.Link = result.Link
		est.Thumbnail = result.Thumbnail
		return est
	}
	if result.Price == nil {
		result.Price = EstimatePrice(activity)
		result.Source = "Estimated"
	}

	result.PriceFormatted = FormatPrice(result.Price)
	return result
}

// resolveFromWeb covers the knowledge-panel, local-listing and organic tiers.
// One web search feeds all three; link tiers and the organic price scan are
// additive — a location found without a price still leaves the price search on.
func (r *Resolver) resolveFromWeb(ctx context.Context, result *ActivityPrice, activity, destination string) {
	web, err := r.search.Search(ctx, activity+" "+destination)
	if err != nil || web == nil {
		return
	}

	// Tier 1: knowledge panel.
	if kg := web.KnowledgeGraph; kg != nil {
		link := kg.Website
		if link == "" {
			link = kg.ReservationLink
		}
		if link != "" {
			result.Link = link
		}
		if kg.Title != "" {
			result.Source = kg.Title
		}
		result.Description = kg.Description
		result.Rating = kg.Rating
		result.Reviews = kg.Reviews
		if p := ExtractPrice(kg.Price); p != nil {
			result.Price = p
		}
	}

	// Tier 2: first local listing.
	if result.Link == "" && web.LocalResults != nil && len(web.LocalResults.Places) > 0 {
		place := web.LocalResults.Places[0]
		link := place.Website
		if link == "" {
			link = place.Link
		}
		if link != "" {
			result.Link = link
			result.Source = place.Title
			result.Rating = place.Rating
			result.Reviews = place.Reviews
			result.Thumbnail = place.Thumbnail
		}
		if result.Price == nil {
			if p := ExtractPrice(place.Price); p != nil {
				result.Price = p
			}
		}
	}

	// Tier 3: organic results. Link selection prefers non-aggregator domains;
	// the snippet price scan is decoupled from it and runs over every result.
	if result.Link == "" && len(web.OrganicResults) > 0 {
		chosen := web.OrganicResults[0]
		for _, org := range web.OrganicResults {
			if !isAggregator(org) {
				chosen = org
				break
			}
		}
		result.Link = chosen.Link
		if chosen.Source != "" {
			result.Source = chosen.Source
		} else {
			result.Source = chosen.Title
		}
	}
	if result.Price == nil {
		for _, org := range web.OrganicResults {
			if p := snippetPrice(org.Snippet); p != nil {
				result.Price = p
				break
			}
		}
	}
}

// resolveFromShopping is only attempted when tiers 1-3 produced no price.
// Shopping listings only ever supply a price; they never supersede a link
// established by a more authoritative tier.
func (r *Resolver) resolveFromShopping(ctx context.Context, result *ActivityPrice, activity, destination string) {
	shopping, err := r.search.SearchShopping(ctx, activity+" "+destination+" tickets price")
	if err != nil || shopping == nil || len(shopping.ShoppingResults) == 0 {
		return
	}

	item := shopping.ShoppingResults[0]
	if item.ExtractedPrice > 0 {
		result.Price = &item.ExtractedPrice
	} else if p := ExtractPrice(item.Price); p != nil {
		result.Price = p
	}
	if result.Price != nil && result.Source == "" {
		result.Source = item.Source
	}
}

func isAggregator(org OrganicResult) bool {
	source := strings.ToLower(org.Source)
	link := strings.ToLower(org.Link)
	for _, domain := range aggregatorDomains {
		if strings.Contains(source, domain) || strings.Contains(link, domain) {
			return true
		}
	}
	return false
}

func snippetPrice(snippet string) *float64 {
	m := organicPriceRe.FindStringSubmatch(snippet)
	if m == nil {
		return nil
	}
	for _, g := range m[1:] {
		if g != "" {
			return extractPriceString(g)
		}
	}
	return nil
}

func estimateResult(activity string) ActivityPrice {
	price := EstimatePrice(activity)
	return ActivityPrice{
		Activity:       activity,
		Price:          price,
		PriceFormatted: FormatPrice(price),
		Source:         "Estimated",
	}
}
