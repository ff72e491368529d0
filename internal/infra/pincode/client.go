package pincode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"storefront/internal/config"

	"golang.org/x/time/rate"
)

var (
	ErrInvalidPincode = errors.New("invalid pincode")
	ErrNotFound       = errors.New("pincode not found")
)

var pinRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// Place は住所の自動入力に使う値。
type Place struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
}

type postOffice struct {
	Name     string `json:"Name"`
	Block    string `json:"Block"`
	District string `json:"District"`
	State    string `json:"State"`
}

type apiResult struct {
	Message    string       `json:"Message"`
	Status     string       `json:"Status"`
	PostOffice []postOffice `json:"PostOffice"`
}

// Client は公開の郵便番号APIを叩く。外部APIに迷惑をかけないよう流量を絞る。
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

func NewClient(cfg config.Pincode) *Client {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
}

func ValidPincode(pin string) bool {
	return pinRe.MatchString(pin)
}

func (c *Client) Lookup(ctx context.Context, pin string) (Place, error) {
	pin = strings.TrimSpace(pin)
	if !ValidPincode(pin) {
		return Place{}, ErrInvalidPincode
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Place{}, fmt.Errorf("pincode rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pincode/"+pin, nil)
	if err != nil {
		return Place{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("pincode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("pincode request: unexpected status %d", resp.StatusCode)
	}

	// レスポンスは配列で返ってくる
	var results []apiResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Place{}, fmt.Errorf("pincode decode: %w", err)
	}
	if len(results) == 0 || !strings.EqualFold(results[0].Status, "Success") || len(results[0].PostOffice) == 0 {
		return Place{}, ErrNotFound
	}

	po := results[0].PostOffice[0]
	city := po.Block
	if city == "" || strings.EqualFold(city, "NA") {
		city = po.District
	}

	return Place{
		Pincode:  pin,
		City:     city,
		District: po.District,
		State:    po.State,
	}, nil
}
