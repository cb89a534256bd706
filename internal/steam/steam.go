// Package steam talks to the public SteamSpy and Steam store endpoints to
// enrich catalogue entries with community stats and imported review text.
// Both endpoints are best-effort: a failure degrades the response, it never
// fails the page.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mnuddindev/gamepulse/pkg/logger"
	storage "github.com/mnuddindev/gamepulse/pkg/redis"
	"github.com/mnuddindev/gamepulse/pkg/utils"
)

const (
	// Unavailable is shown for every stat when SteamSpy cannot be reached.
	Unavailable = "Unavailable"

	statsCacheTTL = 10 * time.Minute
	// reviewsPerPage is the maximum the store endpoint hands out per call.
	reviewsPerPage = 100
)

// Stats is the community snapshot rendered alongside a game page. Fields are
// strings so the degraded "Unavailable" value needs no special casing in the
// response shape.
type Stats struct {
	PositiveReviews string `json:"positive_reviews"`
	NegativeReviews string `json:"negative_reviews"`
	TotalReviews    string `json:"total_reviews"`
	OverallScore    string `json:"overall_score"`
}

// UnavailableStats is what every caller gets when the upstream is down.
func UnavailableStats() Stats {
	return Stats{
		PositiveReviews: Unavailable,
		NegativeReviews: Unavailable,
		TotalReviews:    Unavailable,
		OverallScore:    Unavailable,
	}
}

type spyAppDetails struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

type storeReview struct {
	ReviewText string `json:"review"`
	VotedUp    bool   `json:"voted_up"`
}

type storeResponse struct {
	Success int           `json:"success"`
	Reviews []storeReview `json:"reviews"`
}

// Client fetches from SteamSpy and the store review endpoint. Construct with
// NewClient; rclient may be nil when caching is not wanted (tests).
type Client struct {
	httpClient   *http.Client
	rclient      *storage.RedisClient
	spyBaseURL   string
	storeBaseURL string
	log          *logger.Logger
}

func NewClient(spyBaseURL, storeBaseURL string, timeout time.Duration, rclient *storage.RedisClient, log *logger.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		rclient:      rclient,
		spyBaseURL:   spyBaseURL,
		storeBaseURL: storeBaseURL,
		log:          log,
	}
}

// Stats returns the SteamSpy community numbers for an app, cached for ten
// minutes. Any failure returns UnavailableStats and a nil error; enrichment
// must never take the game page down with it.
func (c *Client) Stats(ctx context.Context, appID int) Stats {
	cacheKey := fmt.Sprintf("steamstats:%d", appID)
	if c.rclient != nil {
		if cached, err := c.rclient.Get(ctx, cacheKey).Result(); err == nil {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return stats
			}
		}
	}

	details, err := c.fetchAppDetails(ctx, appID)
	if err != nil {
		if c.log != nil {
			c.log.Warn(ctx).WithMeta(utils.Map{"app_id": strconv.Itoa(appID), "error": err.Error()}).Logs("SteamSpy fetch failed, serving Unavailable")
		}
		return UnavailableStats()
	}

	total := details.Positive + details.Negative
	score := 0.0
	if total > 0 {
		score = float64(details.Positive) / float64(total) * 100
	}
	stats := Stats{
		PositiveReviews: strconv.Itoa(details.Positive),
		NegativeReviews: strconv.Itoa(details.Negative),
		TotalReviews:    strconv.Itoa(total),
		OverallScore:    fmt.Sprintf("%.2f%%", score),
	}

	if c.rclient != nil {
		if payload, err := json.Marshal(stats); err == nil {
			c.rclient.Set(ctx, cacheKey, payload, statsCacheTTL)
		}
	}
	return stats
}

func (c *Client) fetchAppDetails(ctx context.Context, appID int) (*spyAppDetails, error) {
	endpoint := fmt.Sprintf("%s?request=appdetails&appid=%d", c.spyBaseURL, appID)
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var details spyAppDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("decoding appdetails: %w", err)
	}
	return &details, nil
}

// Reviews pulls one page of recent English review texts from the store
// endpoint, skipping entries with empty text. Unlike Stats this surfaces its
// error: an import the operator asked for should say why it got nothing.
func (c *Client) Reviews(ctx context.Context, appID int) ([]string, error) {
	params := url.Values{}
	params.Set("json", "1")
	params.Set("filter", "recent")
	params.Set("language", "english")
	params.Set("num_per_page", strconv.Itoa(reviewsPerPage))
	endpoint := fmt.Sprintf("%s%d?%s", c.storeBaseURL, appID, params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrBadGateway.Code, "Steam review fetch failed")
	}

	var resp storeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, utils.WrapError(err, utils.ErrBadGateway.Code, "Steam review response malformed")
	}
	if resp.Success != 1 {
		return nil, utils.NewError(utils.ErrBadGateway.Code, "Steam review endpoint refused the request")
	}

	texts := make([]string, 0, len(resp.Reviews))
	for _, r := range resp.Reviews {
		if r.ReviewText == "" {
			continue
		}
		texts = append(texts, r.ReviewText)
	}
	return texts, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}
	return io.ReadAll(resp.Body)
}
