package graph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", time.Time{}, 5*time.Second, zap.NewNop())
}

func TestHasActiveSession(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name     string
		token    string
		expiry   time.Time
		expected bool
	}{
		{
			name:     "token without expiry",
			token:    "tok",
			expected: true,
		},
		{
			name:     "token with future expiry",
			token:    "tok",
			expiry:   time.Now().Add(time.Hour),
			expected: true,
		},
		{
			name:     "expired token",
			token:    "tok",
			expiry:   time.Now().Add(-time.Minute),
			expected: false,
		},
		{
			name:     "missing token",
			token:    "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("https://graph.example.com", tt.token, tt.expiry, time.Second, logger)
			assert.Equal(t, tt.expected, c.HasActiveSession())
		})
	}
}

func TestListMailUsersFiltersMailless(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[
			{"id":"u1","mail":"alice@example.com"},
			{"id":"u2","mail":""},
			{"id":"u3","mail":"bob@example.com"}
		]}`))
	})

	users, err := c.ListMailUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].MailAddress)
	assert.Equal(t, "u3", users[1].ID)
}

func TestListMessages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/messages", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("$top"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"value":[{
			"id":"m1",
			"subject":"Benefits form",
			"sentDateTime":"2024-05-10T09:30:00Z",
			"from":{"emailAddress":{"address":"hr@example.com"}}
		}]}`))
	})

	msgs, err := c.ListMessages(context.Background(), "u1", 25)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "Benefits form", msgs[0].Subject)
	assert.Equal(t, "hr@example.com", msgs[0].From)
	assert.Equal(t, time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC), msgs[0].SentAt)
}

func TestGetMessageBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/messages/m1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"m1","body":{"contentType":"html","content":"<p>SSN 123-45-6789</p>"}}`))
	})

	body, err := c.GetMessageBody(context.Background(), "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, "<p>SSN 123-45-6789</p>", body)
}

func TestDeleteMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/users/u1/messages/m1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteMessage(context.Background(), "u1", "m1"))
}

func TestDeleteMessageSurfacesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"ErrorItemNotFound","message":"The specified object was not found."}}`))
	})

	err := c.DeleteMessage(context.Background(), "u1", "m1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ErrorItemNotFound")
}

func TestListMessagesErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"InvalidAuthenticationToken","message":"Access token has expired."}}`))
	})

	_, err := c.ListMessages(context.Background(), "u1", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidAuthenticationToken")
}
