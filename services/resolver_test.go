package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher scripts the search provider per query.
type stubSearcher struct {
	mu        sync.Mutex
	webFn     func(query string) (*SearchResults, error)
	shopFn    func(query string) (*ShoppingResults, error)
	webCalls  int
	shopCalls int
}

func (s *stubSearcher) Search(ctx context.Context, query string) (*SearchResults, error) {
	s.mu.Lock()
	s.webCalls++
	s.mu.Unlock()
	if s.webFn == nil {
		return &SearchResults{}, nil
	}
	return s.webFn(query)
}

func (s *stubSearcher) SearchShopping(ctx context.Context, query string) (*ShoppingResults, error) {
	s.mu.Lock()
	s.shopCalls++
	s.mu.Unlock()
	if s.shopFn == nil {
		return &ShoppingResults{}, nil
	}
	return s.shopFn(query)
}

func TestResolvePrice_KnowledgePanelShortCircuitsShopping(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return &SearchResults{
				KnowledgeGraph: &KnowledgeGraph{
					Title:       "Eiffel Tower",
					Website:     "https://www.toureiffel.paris",
					Description: "Wrought-iron lattice tower in Paris",
					Rating:      4.7,
					Reviews:     387000,
					Price:       "$28.30",
				},
			}, nil
		},
	}

	r := NewResolver(stub)
	got := r.ResolvePrice(context.Background(), "Eiffel Tower", "Paris")

	require.NotNil(t, got.Price)
	assert.InDelta(t, 28.30, *got.Price, 0.0001)
	assert.Equal(t, "Eiffel Tower", got.Source)
	assert.Equal(t, "https://www.toureiffel.paris", got.Link)
	assert.Equal(t, 4.7, got.Rating)
	assert.Equal(t, "$28.30", got.PriceFormatted)
	assert.Equal(t, 0, stub.shopCalls, "shopping tier must not run when a price was found")
}

func TestResolvePrice_LocalListingTier(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return &SearchResults{
				LocalResults: &LocalResults{
					Places: []LocalPlace{
						{
							Title:     "Sagrada Familia Visitor Centre",
							Website:   "https://sagradafamilia.org",
							Rating:    4.8,
							Reviews:   201553,
							Thumbnail: "https://img.example/sf.jpg",
							Price:     "€26",
						},
					},
				},
			}, nil
		},
	}

	got := NewResolver(stub).ResolvePrice(context.Background(), "Sagrada Familia", "Barcelona")

	require.NotNil(t, got.Price)
	assert.Equal(t, 26.0, *got.Price)
	assert.Equal(t, "Sagrada Familia Visitor Centre", got.Source)
	assert.Equal(t, "https://sagradafamilia.org", got.Link)
	assert.Equal(t, "https://img.example/sf.jpg", got.Thumbnail)
}

func TestResolvePrice_OrganicPrefersNonAggregator(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return &SearchResults{
				OrganicResults: []OrganicResult{
					{Link: "https://www.tripadvisor.com/x", Source: "Tripadvisor", Snippet: "reviews of the gallery"},
					{Link: "https://www.uffizi.it/en", Source: "uffizi.it", Snippet: "Tickets from $25 at the door"},
					{Link: "https://www.viator.com/y", Source: "Viator", Snippet: "book a tour"},
				},
			}, nil
		},
	}

	got := NewResolver(stub).ResolvePrice(context.Background(), "Uffizi Gallery", "Florence")

	assert.Equal(t, "https://www.uffizi.it/en", got.Link)
	assert.Equal(t, "uffizi.it", got.Source)
	require.NotNil(t, got.Price)
	assert.Equal(t, 25.0, *got.Price)
}

func TestResolvePrice_OrganicPriceScanIsDecoupledFromLink(t *testing.T) {
	// The price lives in an aggregator snippet while the link comes from the
	// first non-aggregator result.
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return &SearchResults{
				OrganicResults: []OrganicResult{
					{Link: "https://www.getyourguide.com/z", Source: "GetYourGuide", Snippet: "Entry 18 USD per adult"},
					{Link: "https://www.thelouvre.fr", Source: "louvre.fr", Snippet: "plan your visit"},
				},
			}, nil
		},
	}

	got := NewResolver(stub).ResolvePrice(context.Background(), "Louvre", "Paris")

	assert.Equal(t, "https://www.thelouvre.fr", got.Link)
	require.NotNil(t, got.Price)
	assert.Equal(t, 18.0, *got.Price)
}

func TestResolvePrice_ShoppingSuppliesPriceOnly(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return &SearchResults{
				OrganicResults: []OrganicResult{
					{Link: "https://www.teamlab.art", Source: "teamlab.art", Snippet: "digital art museum"},
				},
			}, nil
		},
		shopFn: func(query string) (*ShoppingResults, error) {
			return &ShoppingResults{
				ShoppingResults: []ShoppingItem{
					{Title: "teamLab tickets", ExtractedPrice: 32, Link: "https://shop.example/t", Source: "shop.example"},
				},
			}, nil
		},
	}

	got := NewResolver(stub).ResolvePrice(context.Background(), "teamLab Planets", "Tokyo")

	require.NotNil(t, got.Price)
	assert.Equal(t, 32.0, *got.Price)
	// Shopping never supersedes the link found by an earlier tier
	assert.Equal(t, "https://www.teamlab.art", got.Link)
	assert.Equal(t, "teamlab.art", got.Source)
}

func TestResolvePrice_AllAggregatorsFallsBackToFirst(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return &SearchResults{
				OrganicResults: []OrganicResult{
					{Link: "https://www.yelp.com/bar", Source: "Yelp", Snippet: "nightlife reviews"},
					{Link: "https://www.tripadvisor.com/bar", Source: "Tripadvisor", Snippet: "top bars"},
				},
			}, nil
		},
		shopFn: func(query string) (*ShoppingResults, error) {
			return &ShoppingResults{}, nil
		},
	}

	got := NewResolver(stub).ResolvePrice(context.Background(), "hidden speakeasy bar", "Tokyo")

	// Every result is an aggregator: the very first one still supplies the link
	assert.Equal(t, "https://www.yelp.com/bar", got.Link)
	// No live price anywhere: the heuristic estimate labels the source
	assert.Equal(t, "Estimated", got.Source)
	require.NotNil(t, got.Price)
	assert.Equal(t, 30.0, *got.Price)
	assert.Equal(t, "$30", got.PriceFormatted)
}

func TestResolvePrice_ProviderFailureDegradesToEstimate(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			return nil, errors.New("search provider down")
		},
		shopFn: func(query string) (*ShoppingResults, error) {
			return nil, errors.New("shopping provider down")
		},
	}

	got := NewResolver(stub).ResolvePrice(context.Background(), "sunset beach walk", "Lisbon")

	assert.Equal(t, "Estimated", got.Source)
	require.NotNil(t, got.Price, "a free activity estimates to 0, not nil")
	assert.Equal(t, 0.0, *got.Price)
	assert.Equal(t, "Free", got.PriceFormatted)
}

func TestResolvePrice_NoSearcherStillReturnsRecord(t *testing.T) {
	got := NewResolver(nil).ResolvePrice(context.Background(), "local market shopping", "Marrakech")

	assert.Equal(t, "Estimated", got.Source)
	assert.Nil(t, got.Price, "pure shopping has no fixed price")
	assert.Equal(t, "Varies", got.PriceFormatted)
}

func TestResolvePrices_BatchSurvivesOnePanic(t *testing.T) {
	stub := &stubSearcher{
		webFn: func(query string) (*SearchResults, error) {
			if strings.Contains(query, "activity-7") {
				panic("upstream exploded")
			}
			return &SearchResults{
				KnowledgeGraph: &KnowledgeGraph{
					Title:   "Panel",
					Website: "https://venue.example",
					Price:   12.0,
				},
			}, nil
		},
	}

	activities := make([]string, 12)
	for i := range activities {
		activities[i] = fmt.Sprintf("activity-%d", i+1)
	}

	results := NewResolver(stub).ResolvePrices(context.Background(), activities, "Tokyo")
	require.Len(t, results, 12)

	for i, res := range results {
		assert.Equal(t, activities[i], res.Activity, "output must be one-to-one with input")
		require.NotNil(t, res.Price)
	}

	// Item #7 carries the heuristic fallback, everyone else the live price
	assert.Equal(t, "Estimated", results[6].Source)
	assert.Equal(t, 40.0, *results[6].Price)
	for i, res := range results {
		if i == 6 {
			continue
		}
		assert.Equal(t, "Panel", res.Source)
		assert.Equal(t, 12.0, *res.Price)
	}
}
