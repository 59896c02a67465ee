package facebook

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
)

// DefaultGraphURL is the Graph API version the client talks to.
const DefaultGraphURL = "https://graph.facebook.com/v19.0"

// ErrVerifyFailed is returned when a webhook verification request does not match.
var ErrVerifyFailed = errors.New("facebook webhook verification failed")

// SendResult is the Send API answer.
type SendResult struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

// Client calls the Send API with a page access token.
type Client struct {
	graphURL   string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithGraphURL overrides DefaultGraphURL.
func WithGraphURL(u string) Option {
	return func(c *Client) {
		c.graphURL = u
	}
}

// WithHTTPClient sets the transport. Authentication is layered on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a Send API client for the page owning pageToken.
func NewClient(pageToken string, opts ...Option) *Client {
	c := &Client{
		graphURL:   DefaultGraphURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	c.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: pageToken}))
	return c
}

// SendResponse posts a SendRequest (or any JSON-encodable payload) to /me/messages.
func (c *Client) SendResponse(ctx context.Context, payload any) (any, error) {
	var result SendResult
	if err := c.post(ctx, payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SetTypingIndicator sends the typing_on or typing_off sender action.
func (c *Client) SetTypingIndicator(ctx context.Context, targetID string, enabled bool) error {
	action := "typing_off"
	if enabled {
		action = "typing_on"
	}
	return c.post(ctx, SendRequest{Recipient: Recipient{ID: targetID}, SenderAction: action}, nil)
}

func (c *Client) post(ctx context.Context, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphURL+"/me/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send api request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read send api response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send api status %d: %s", resp.StatusCode, gjson.GetBytes(respBody, "error.message").String())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode send api response: %w", err)
	}
	return nil
}

// VerifyChallenge answers the webhook subscription handshake. It returns the
// challenge to echo when mode is "subscribe" and token matches verifyToken.
func VerifyChallenge(verifyToken, mode, token, challenge string) (string, error) {
	if mode != "subscribe" || verifyToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) != 1 {
		return "", ErrVerifyFailed
	}
	return challenge, nil
}
