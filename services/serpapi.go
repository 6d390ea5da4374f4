package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"wanderplan/config"
)

// ─── Result Shapes ────────────────────────────────────────────────────────────

// SearchResults is the slice of a general web search the resolver cares about:
// an optional knowledge panel, optional local listings, and organic results.
type SearchResults struct {
	KnowledgeGraph *KnowledgeGraph `json:"knowledge_graph,omitempty"`
	LocalResults   *LocalResults   `json:"local_results,omitempty"`
	OrganicResults []OrganicResult `json:"organic_results,omitempty"`
}

type KnowledgeGraph struct {
	Title           string      `json:"title,omitempty"`
	Website         string      `json:"website,omitempty"`
	ReservationLink string      `json:"reservation_link,omitempty"`
	Description     string      `json:"description,omitempty"`
	Rating          float64     `json:"rating,omitempty"`
	Reviews         int         `json:"reviews,omitempty"`
	Price           interface{} `json:"price,omitempty"`
}

type LocalResults struct {
	Places []LocalPlace `json:"places,omitempty"`
}

type LocalPlace struct {
	Title     string      `json:"title,omitempty"`
	Website   string      `json:"website,omitempty"`
	Link      string      `json:"link,omitempty"`
	Rating    float64     `json:"rating,omitempty"`
	Reviews   int         `json:"reviews,omitempty"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	Price     interface{} `json:"price,omitempty"`
}

type OrganicResult struct {
	Title   string `json:"title,omitempty"`
	Link    string `json:"link,omitempty"`
	Source  string `json:"source,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// ShoppingResults is a shopping-specific search response.
type ShoppingResults struct {
	ShoppingResults []ShoppingItem `json:"shopping_results,omitempty"`
}

type ShoppingItem struct {
	Title          string      `json:"title,omitempty"`
	Price          interface{} `json:"price,omitempty"`
	ExtractedPrice float64     `json:"extracted_price,omitempty"`
	Link           string      `json:"link,omitempty"`
	Source         string      `json:"source,omitempty"`
	Thumbnail      string      `json:"thumbnail,omitempty"`
	Rating         float64     `json:"rating,omitempty"`
	Reviews        int         `json:"reviews,omitempty"`
}

// ─── Client ───────────────────────────────────────────────────────────────────

type SearchClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var searchClient *SearchClient

func InitSearch(cfg *config.Config) {
	searchClient = NewSearchClient(cfg.SearchAPIKey, cfg.SearchBaseURL, cfg.HTTPTimeout)
	if cfg.SearchAPIKey == "" {
		log.Println("SEARCH_API_KEY not set — activity price resolution will rely on estimates")
	}
}

func GetSearchClient() *SearchClient {
	return searchClient
}

func NewSearchClient(apiKey, baseURL string, timeout time.Duration) *SearchClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Search runs a general web search and returns the knowledge panel, local
// listings and organic results for the query.
func (c *SearchClient) Search(ctx context.Context, query string) (*SearchResults, error) {
	var results SearchResults
	if err := c.doSearch(ctx, "google", query, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// SearchShopping runs a shopping-specific search.
func (c *SearchClient) SearchShopping(ctx context.Context, query string) (*ShoppingResults, error) {
	var results ShoppingResults
	if err := c.doSearch(ctx, "google_shopping", query, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// SearchHotels queries the hotels engine for a destination and date range.
func (c *SearchClient) SearchHotels(ctx context.Context, destination, checkIn, checkOut string, adults int) (*HotelSearchResponse, error) {
	extra := url.Values{}
	extra.Set("check_in_date", checkIn)
	extra.Set("check_out_date", checkOut)
	extra.Set("adults", fmt.Sprintf("%d", adults))
	extra.Set("currency", "USD")

	var results HotelSearchResponse
	if err := c.doSearch(ctx, "google_hotels", destination, extra, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

func (c *SearchClient) doSearch(ctx context.Context, engine, query string, extra url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("search provider not configured")
	}

	params := url.Values{}
	params.Set("engine", engine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	for k, vs := range extra {
		for _, v := range vs {
			params.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s results: %w", engine, err)
	}
	return nil
}
