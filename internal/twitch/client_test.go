package twitch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHelix struct {
	mux        *http.ServeMux
	srv        *httptest.Server
	tokenCalls int
	rejectAuth bool

	streamsJSON string
	usersJSON   string
	videosJSON  string

	lastVideosQuery map[string]string
}

func newFakeHelix(t *testing.T) *fakeHelix {
	t.Helper()
	f := &fakeHelix{
		mux:         http.NewServeMux(),
		streamsJSON: `{"data":[]}`,
		usersJSON:   `{"data":[]}`,
		videosJSON:  `{"data":[]}`,
	}

	f.mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls++
		if f.rejectAuth {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"status":403,"message":"invalid client secret"}`)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok123","expires_in":3600}`)
	})
	f.mux.HandleFunc("/streams", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, f.streamsJSON)
	})
	f.mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.usersJSON)
	})
	f.mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.lastVideosQuery = map[string]string{
			"user_id": q.Get("user_id"),
			"first":   q.Get("first"),
			"type":    q.Get("type"),
		}
		fmt.Fprint(w, f.videosJSON)
	})

	f.srv = httptest.NewServer(f.mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHelix) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient("cid", "secret")
	require.NoError(t, err)
	c.tokenURL = f.srv.URL + "/oauth2/token"
	c.apiBase = f.srv.URL
	return c
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient("", "secret")
	assert.Error(t, err)
	_, err = NewClient("cid", "")
	assert.Error(t, err)
}

func TestAppToken_CachedAcrossCalls(t *testing.T) {
	f := newFakeHelix(t)
	c := f.client(t)
	ctx := context.Background()

	_, err := c.GetStreamsByLogins(ctx, []string{"gaules"})
	require.NoError(t, err)
	_, err = c.GetStreamsByLogins(ctx, []string{"gaules"})
	require.NoError(t, err)

	assert.Equal(t, 1, f.tokenCalls)
}

func TestAppToken_RenewedNearExpiry(t *testing.T) {
	f := newFakeHelix(t)
	c := f.client(t)
	ctx := context.Background()

	_, err := c.GetStreamsByLogins(ctx, []string{"gaules"})
	require.NoError(t, err)

	// Within the 60s renewal margin the next call re-exchanges credentials.
	c.mu.Lock()
	c.tokenExpiry = time.Now().Add(30 * time.Second)
	c.mu.Unlock()

	_, err = c.GetStreamsByLogins(ctx, []string{"gaules"})
	require.NoError(t, err)

	assert.Equal(t, 2, f.tokenCalls)
}

func TestAppToken_RejectionIsAuthError(t *testing.T) {
	f := newFakeHelix(t)
	f.rejectAuth = true
	c := f.client(t)

	_, err := c.GetStreamsByLogins(context.Background(), []string{"gaules"})
	require.Error(t, err)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusForbidden, authErr.Status)
	assert.Contains(t, authErr.Body, "invalid client secret")
}

func TestGetStreamsByLogins(t *testing.T) {
	f := newFakeHelix(t)
	f.streamsJSON = `{"data":[{"id":"9","user_login":"Gaules","game_name":"CS2","title":"live","viewer_count":42000,"started_at":"2026-08-01T10:00:00Z"}]}`
	c := f.client(t)

	streams, err := c.GetStreamsByLogins(context.Background(), []string{"gaules", "offline_guy"})
	require.NoError(t, err)

	// Keys are lowercase; offline channels are absent, not an error.
	require.Len(t, streams, 1)
	s, ok := streams["gaules"]
	require.True(t, ok)
	assert.Equal(t, 42000, s.ViewerCount)
	assert.Equal(t, "CS2", s.GameName)

	_, ok = streams["offline_guy"]
	assert.False(t, ok)
}

func TestGetStreamsByLogins_EmptyList(t *testing.T) {
	f := newFakeHelix(t)
	c := f.client(t)

	streams, err := c.GetStreamsByLogins(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, streams)
	assert.Zero(t, f.tokenCalls)
}

func TestGetUsersByLogins(t *testing.T) {
	f := newFakeHelix(t)
	f.usersJSON = `{"data":[{"id":"181077473","login":"gaules","display_name":"Gaules"}]}`
	c := f.client(t)

	users, err := c.GetUsersByLogins(context.Background(), []string{"gaules", "ghost"})
	require.NoError(t, err)

	require.Len(t, users, 1)
	assert.Equal(t, "181077473", users["gaules"].ID)
}

func TestGetVideosByUserID_Params(t *testing.T) {
	f := newFakeHelix(t)
	f.videosJSON = `{"data":[{"id":"v1","view_count":1000,"duration":"1h2m3s"}]}`
	c := f.client(t)
	ctx := context.Background()

	videos, err := c.GetVideosByUserID(ctx, "181077473", 500)
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "1h2m3s", videos[0].Duration)

	assert.Equal(t, "181077473", f.lastVideosQuery["user_id"])
	assert.Equal(t, "archive", f.lastVideosQuery["type"])
	assert.Equal(t, "100", f.lastVideosQuery["first"]) // clamped down

	_, err = c.GetVideosByUserID(ctx, "181077473", 0)
	require.NoError(t, err)
	assert.Equal(t, "1", f.lastVideosQuery["first"]) // clamped up
}

func TestRequestFailureSurfacesStatusAndBody(t *testing.T) {
	f := newFakeHelix(t)
	c := f.client(t)
	c.mu.Lock()
	c.token = "wrong"
	c.tokenExpiry = time.Now().Add(time.Hour)
	c.mu.Unlock()

	_, err := c.GetStreamsByLogins(context.Background(), []string{"gaules"})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
}
