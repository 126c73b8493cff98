// Package client talks to the root panel REST API on behalf of operator
// tooling. Every call needs a root token except Login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// A rate profile as served by the API
type ShootingSpeed struct {
	ID               uint    `json:"id"`
	Name             string  `json:"name"`
	Sequence         int     `json:"sequence"`
	NumberShots      int     `json:"numberShots"`
	TimeBetweenShots float64 `json:"timeBetweenShots"`
	TimeRest         float64 `json:"timeRest"`
	Status           bool    `json:"status"`
	ShootingPerDay   int     `json:"shootingPerDay"`
}

// The field set submitted on create and update. The derived daily
// throughput is never sent.
type ShootingSpeedFields struct {
	Name             string  `json:"name"`
	Sequence         int     `json:"sequence"`
	NumberShots      int     `json:"numberShots"`
	TimeBetweenShots float64 `json:"timeBetweenShots"`
	TimeRest         float64 `json:"timeRest"`
	Status           bool    `json:"status"`
}

// Returns the submittable fields of a profile
func (s ShootingSpeed) Fields() ShootingSpeedFields {
	return ShootingSpeedFields{
		Name:             s.Name,
		Sequence:         s.Sequence,
		NumberShots:      s.NumberShots,
		TimeBetweenShots: s.TimeBetweenShots,
		TimeRest:         s.TimeRest,
		Status:           s.Status,
	}
}

func (f ShootingSpeedFields) query() url.Values {
	q := url.Values{}
	q.Set("name", f.Name)
	q.Set("sequence", strconv.Itoa(f.Sequence))
	q.Set("numberShots", strconv.Itoa(f.NumberShots))
	q.Set("timeBetweenShots", strconv.FormatFloat(f.TimeBetweenShots, 'f', -1, 64))
	q.Set("timeRest", strconv.FormatFloat(f.TimeRest, 'f', -1, 64))
	q.Set("status", strconv.FormatBool(f.Status))
	return q
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Token() string {
	return c.token
}

// Signs in as root and keeps the token for later calls
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/public/login", nil, body, &resp); err != nil {
		return "", err
	}

	c.token = resp.Token
	return resp.Token, nil
}

// Reports whether the root account has been registered
func (c *Client) RootExists(ctx context.Context) (bool, error) {
	var resp struct {
		S bool `json:"s"`
	}
	if err := c.do(ctx, http.MethodGet, "/public/ex-root", nil, nil, &resp); err != nil {
		return false, err
	}
	return resp.S, nil
}

// Registers the single root account and keeps the returned token
func (c *Client) RegisterRoot(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/public/register-root", nil, body, &resp); err != nil {
		return "", err
	}

	c.token = resp.Token
	return resp.Token, nil
}

// Returns nil while the token is still accepted
func (c *Client) VerifyAuthorization(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/root/verify-authorization", nil, nil, nil)
}

func (c *Client) ListShootingSpeeds(ctx context.Context) ([]ShootingSpeed, error) {
	var resp struct {
		ShootingSpeeds []ShootingSpeed `json:"shootingSpeeds"`
	}
	if err := c.do(ctx, http.MethodGet, "/root/rate-profiles", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ShootingSpeeds, nil
}

func (c *Client) GetShootingSpeed(ctx context.Context, id uint) (*ShootingSpeed, error) {
	var resp struct {
		ShootingSpeed *ShootingSpeed `json:"shootingSpeed"`
	}
	if err := c.do(ctx, http.MethodGet, profilePath(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.ShootingSpeed == nil {
		return nil, fmt.Errorf("response for profile %d carried no profile", id)
	}
	return resp.ShootingSpeed, nil
}

func (c *Client) CreateShootingSpeed(ctx context.Context, fields ShootingSpeedFields) (*ShootingSpeed, error) {
	var resp struct {
		ShootingSpeed *ShootingSpeed `json:"shootingSpeed"`
	}
	if err := c.do(ctx, http.MethodPost, "/root/rate-profiles", nil, fields, &resp); err != nil {
		return nil, err
	}
	return resp.ShootingSpeed, nil
}

// Sends the fields as query parameters. The returned profile is nil when the
// server acknowledges without echoing the record.
func (c *Client) UpdateShootingSpeed(ctx context.Context, id uint, fields ShootingSpeedFields) (*ShootingSpeed, error) {
	var resp struct {
		ShootingSpeed *ShootingSpeed `json:"shootingSpeed"`
	}
	if err := c.do(ctx, http.MethodPut, profilePath(id), fields.query(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.ShootingSpeed, nil
}

func profilePath(id uint) string {
	return "/root/rate-profiles/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Add auth header if token is configured
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}
