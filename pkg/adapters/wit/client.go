// Package wit implements the NLU client for the Wit.ai HTTP API.
package wit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aretw0/arbor/pkg/domain"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Wit.ai API endpoint.
	DefaultBaseURL = "https://api.wit.ai"

	// DefaultVersion pins the API version sent as the "v" parameter.
	DefaultVersion = "20240304"
)

// Client validates text against a Wit.ai app.
type Client struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithVersion overrides DefaultVersion.
func WithVersion(v string) Option {
	return func(c *Client) {
		c.version = v
	}
}

// WithHTTPClient sets the transport. Authentication is layered on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client authenticated with the app's server access token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		version:    DefaultVersion,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	c.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return c
}

// Validate sends text to the /message endpoint and returns the interpretation.
func (c *Client) Validate(ctx context.Context, text string) (domain.WitResponse, error) {
	query := url.Values{}
	query.Set("v", c.version)
	query.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/message?"+query.Encode(), nil)
	if err != nil {
		return domain.WitResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WitResponse{}, fmt.Errorf("wit request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WitResponse{}, fmt.Errorf("failed to read wit response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = string(body)
		}
		return domain.WitResponse{}, &Error{HTTPStatus: resp.StatusCode, Code: gjson.GetBytes(body, "code").String(), Message: msg}
	}

	var out domain.WitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.WitResponse{}, fmt.Errorf("failed to decode wit response: %w", err)
	}
	if out.Text == "" {
		out.Text = gjson.GetBytes(body, "text").String()
	}
	return out, nil
}

// Error is a non-200 answer from the API.
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("wit: %s (%s, status %d)", e.Message, e.Code, e.HTTPStatus)
	}
	return fmt.Sprintf("wit: %s (status %d)", e.Message, e.HTTPStatus)
}
