package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTokenURL = "https://id.twitch.tv/oauth2/token"
	defaultAPIBase  = "https://api.twitch.tv/helix"

	// Helix caps login filters at 100 values per request.
	maxLoginsPerRequest = 100

	// Renew the app token only once it is within this margin of expiry.
	tokenRenewMargin = 60 * time.Second
)

// AuthError means the client-credentials exchange was rejected. Nothing
// requiring auth can proceed until the credentials are corrected.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("twitch auth failed: status %d: %s", e.Status, e.Body)
}

// RequestError is any non-2xx response from a Helix read. Callers decide
// whether to retry; the collector just waits for its next tick.
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("twitch request failed: status %d: %s", e.Status, e.Body)
}

type Stream struct {
	ID          string `json:"id"`
	UserLogin   string `json:"user_login"`
	GameName    string `json:"game_name"`
	Title       string `json:"title"`
	ViewerCount int    `json:"viewer_count"`
	StartedAt   string `json:"started_at"`
}

type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
}

type Video struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	ViewCount int    `json:"view_count"`
	Duration  string `json:"duration"` // "1h2m3s" style
	CreatedAt string `json:"created_at"`
}

// Client wraps the three Helix reads the dashboard needs. The app token
// lives on the client instance together with its expiry; renewal happens
// inside appToken, never per call.
type Client struct {
	clientID     string
	clientSecret string
	http         *resty.Client

	tokenURL string
	apiBase  string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(clientID, clientSecret string) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("twitch client id and secret are required")
	}

	httpClient := resty.New()
	httpClient.SetTimeout(20 * time.Second)

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         httpClient,
		tokenURL:     defaultTokenURL,
		apiBase:      defaultAPIBase,
	}, nil
}

func (c *Client) appToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if c.token != "" && now.Before(c.tokenExpiry.Add(-tokenRenewMargin)) {
		return c.token, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
			"grant_type":    "client_credentials",
		}).
		Post(c.tokenURL)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if resp.IsError() {
		return "", &AuthError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body(), &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.ExpiresIn <= 0 {
		tok.ExpiresIn = 3600
	}

	c.token = tok.AccessToken
	c.tokenExpiry = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := c.appToken(ctx)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Client-Id", c.clientID).
		SetHeader("Authorization", "Bearer "+token).
		SetQueryParamsFromValues(query).
		Get(c.apiBase + path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	if resp.IsError() {
		return &RequestError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// GetStreamsByLogins returns the currently live streams among the given
// logins, keyed by lowercase login. Offline channels are simply absent.
func (c *Client) GetStreamsByLogins(ctx context.Context, logins []string) (map[string]Stream, error) {
	out := make(map[string]Stream)
	for _, chunk := range chunkLogins(logins) {
		query := url.Values{}
		for _, login := range chunk {
			query.Add("user_login", login)
		}

		var payload struct {
			Data []Stream `json:"data"`
		}
		if err := c.get(ctx, "/streams", query, &payload); err != nil {
			return nil, err
		}
		for _, s := range payload.Data {
			out[strings.ToLower(s.UserLogin)] = s
		}
	}
	return out, nil
}

// GetUsersByLogins resolves logins to user records, keyed by lowercase
// login. Unknown logins are absent from the map, not an error.
func (c *Client) GetUsersByLogins(ctx context.Context, logins []string) (map[string]User, error) {
	out := make(map[string]User)
	for _, chunk := range chunkLogins(logins) {
		query := url.Values{}
		for _, login := range chunk {
			query.Add("login", login)
		}

		var payload struct {
			Data []User `json:"data"`
		}
		if err := c.get(ctx, "/users", query, &payload); err != nil {
			return nil, err
		}
		for _, u := range payload.Data {
			out[strings.ToLower(u.Login)] = u
		}
	}
	return out, nil
}

// GetVideosByUserID lists a user's most recent archived broadcasts (VODs,
// not clips or highlights). first is clamped to the API's [1,100] range.
func (c *Client) GetVideosByUserID(ctx context.Context, userID string, first int) ([]Video, error) {
	if first < 1 {
		first = 1
	}
	if first > 100 {
		first = 100
	}

	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("first", fmt.Sprintf("%d", first))
	query.Set("type", "archive")

	var payload struct {
		Data []Video `json:"data"`
	}
	if err := c.get(ctx, "/videos", query, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func chunkLogins(logins []string) [][]string {
	var chunks [][]string
	for start := 0; start < len(logins); start += maxLoginsPerRequest {
		end := start + maxLoginsPerRequest
		if end > len(logins) {
			end = len(logins)
		}
		chunks = append(chunks, logins[start:end])
	}
	return chunks
}
