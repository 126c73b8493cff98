package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListShootingSpeeds(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/root/rate-profiles", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"shootingSpeeds":[{"id":7,"name":"slow","sequence":1,"numberShots":1,"timeBetweenShots":0,"timeRest":3600,"status":true,"shootingPerDay":24}]}`)
	}))
	defer ts.Close()

	c := New(ts.URL+"/", WithToken("tok"))
	speeds, err := c.ListShootingSpeeds(context.Background())
	require.NoError(t, err)
	require.Len(t, speeds, 1)
	assert.Equal(t, ShootingSpeed{
		ID: 7, Name: "slow", Sequence: 1, NumberShots: 1, TimeRest: 3600, Status: true, ShootingPerDay: 24,
	}, speeds[0])
}

func TestUpdateShootingSpeed_SendsQueryParameters(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/root/rate-profiles/7", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)

		q := r.URL.Query()
		assert.Equal(t, "fast", q.Get("name"))
		assert.Equal(t, "-2", q.Get("sequence"))
		assert.Equal(t, "5", q.Get("numberShots"))
		assert.Equal(t, "2.5", q.Get("timeBetweenShots"))
		assert.Equal(t, "10", q.Get("timeRest"))
		assert.Equal(t, "false", q.Get("status"))
		assert.False(t, q.Has("shootingPerDay"))

		_, _ = io.WriteString(w, `{"message":"ok"}`)
	}))
	defer ts.Close()

	c := New(ts.URL, WithToken("tok"))
	updated, err := c.UpdateShootingSpeed(context.Background(), 7, ShootingSpeedFields{
		Name: "fast", Sequence: -2, NumberShots: 5, TimeBetweenShots: 2.5, TimeRest: 10,
	})
	require.NoError(t, err)
	assert.Nil(t, updated, "no record echoed")
}

func TestCreateShootingSpeed_SendsJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var fields map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "new", fields["name"])
		assert.Equal(t, true, fields["status"])
		assert.NotContains(t, fields, "shootingPerDay")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"shootingSpeed":{"id":3,"name":"new","status":true,"shootingPerDay":0}}`)
	}))
	defer ts.Close()

	created, err := New(ts.URL).CreateShootingSpeed(context.Background(), ShootingSpeedFields{Name: "new", Status: true})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(3), created.ID)
}

func TestLogin_KeepsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/public/login":
			_, _ = io.WriteString(w, `{"token":"fresh"}`)
		case "/root/verify-authorization":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = io.WriteString(w, `{"ok":true}`)
		}
	}))
	defer ts.Close()

	c := New(ts.URL)
	token, err := c.Login(context.Background(), "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Equal(t, "fresh", c.Token())
	assert.NoError(t, c.VerifyAuthorization(context.Background()))
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"first detail wins", 400, `{"message":"Invalid request","details":[{"message":"name is required","field":"name"},{"message":"other"}]}`, "name is required"},
		{"message fallback", 404, `{"message":"Shooting speed not found","details":[]}`, "Shooting speed not found"},
		{"blank detail falls back", 400, `{"message":"Invalid request","details":[{"message":" "}]}`, "Invalid request"},
		{"error field", 429, `{"error":"Rate limit exceeded"}`, "Rate limit exceeded"},
		{"empty body", 502, ``, "Bad Gateway"},
		{"not json", 500, `<html>oops</html>`, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer ts.Close()

			_, err := New(ts.URL).GetShootingSpeed(context.Background(), 1)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.False(t, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestUnauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid or expired token","details":[{"message":"Invalid or expired token"}]}`)
	}))
	defer ts.Close()

	err := New(ts.URL, WithToken("stale")).VerifyAuthorization(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualError(t, err, "api error 401: Invalid or expired token")
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url).ListShootingSpeeds(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "GET /root/rate-profiles")
}

func TestWithHTTPClient(t *testing.T) {
	var used bool
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		used = true
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"s":true}`)),
			Header:     http.Header{},
		}, nil
	})}

	exists, err := New("http://panel.invalid", WithHTTPClient(hc)).RootExists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.True(t, used)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
