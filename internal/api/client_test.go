package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/inbox/internal/model"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", WithMaxRetries(2))
	require.NoError(t, err)
	return c
}

func TestMessages(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Label_7", r.URL.Query().Get("label"))
		_, _ = w.Write([]byte(`[{"id":"m1","from":"Ana <ana@example.com>","subject":"Hi","snippet":"s","body":"b","unread":true,"labels":["INBOX","UNREAD"]}]`))
	}))

	msgs, err := c.Messages(context.Background(), model.Folder("Label_7"))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.True(t, msgs[0].Unread)
	assert.Equal(t, []string{"INBOX", "UNREAD"}, msgs[0].Labels)
}

func TestMessages_NullBodyIsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	}))

	msgs, err := c.Messages(context.Background(), model.FolderInbox)
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}

func TestAnalyze(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/emails/m1/analyze", r.URL.Path)
			_, _ = w.Write([]byte(`{"summary":"Lunch","suggested_label":"Social","suggested_reply":"Sure","meeting_detected":true,"proposed_datetime":"2026-03-02T12:00:00","duration_minutes":45}`))
		}))

		res, err := c.Analyze(context.Background(), "m1")
		require.NoError(t, err)
		assert.Equal(t, "Lunch", res.Summary)
		assert.Equal(t, "Social", res.SuggestedLabel)
		assert.True(t, res.HasMeeting())
		assert.Equal(t, 45, res.MeetingDuration())
	})

	t.Run("error body with 200", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"EMPTY_EMAIL_BODY","message":"Could not extract the body"}`))
		}))

		_, err := c.Analyze(context.Background(), "m1")
		var analysisErr *AnalysisError
		require.ErrorAs(t, err, &analysisErr)
		assert.Equal(t, "EMPTY_EMAIL_BODY", analysisErr.Code)
		assert.Equal(t, "Could not extract the body", ErrorDetail(err, "fallback"))
	})
}

func TestAddLabelEscapesQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails/m1/add-label", r.URL.Path)
		assert.Equal(t, "Clients & Partners", r.URL.Query().Get("label"))
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))

	require.NoError(t, c.AddLabel(context.Background(), "m1", "Clients & Partners"))
}

func TestArchiveAndReplyBodies(t *testing.T) {
	var archived archiveRequest
	var replied replyRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		switch r.URL.Path {
		case "/archive":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&archived))
		case "/reply":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&replied))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))

	require.NoError(t, c.Archive(context.Background(), "m1", "AI-Handled"))
	require.NoError(t, c.Reply(context.Background(), "m2", "Thanks!"))

	assert.Equal(t, archiveRequest{MessageID: "m1", LabelName: "AI-Handled"}, archived)
	assert.Equal(t, replyRequest{MessageID: "m2", ReplyText: "Thanks!"}, replied)
}

func TestCreateMeeting(t *testing.T) {
	t.Run("returns link", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Sync", req["title"])
			assert.Equal(t, []any{}, req["attendees"])
			_, _ = w.Write([]byte(`{"status":"meeting created","calendar_link":"https://cal.example.com/e/1"}`))
		}))

		link, err := c.CreateMeeting(context.Background(), model.MeetingRequest{
			Title:           "Sync",
			StartDatetime:   "2026-03-02T10:00:00",
			DurationMinutes: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cal.example.com/e/1", link)
	})

	t.Run("conflict detail", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"detail":"Slot already taken"}`))
		}))

		_, err := c.CreateMeeting(context.Background(), model.MeetingRequest{Title: "Sync"})
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
		assert.Equal(t, "Slot already taken", ErrorDetail(err, "generic"))
	})

	t.Run("no detail falls back", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := c.CreateMeeting(context.Background(), model.MeetingRequest{Title: "Sync"})
		require.Error(t, err)
		assert.Equal(t, "generic", ErrorDetail(err, "generic"))
	})
}

func TestAuthErrors(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.Labels(context.Background())
	assert.True(t, IsAuthError(err))
	assert.False(t, IsAuthError(errors.New("boom")))
}

func TestAuthStatusAndUser(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/status":
			_, _ = w.Write([]byte(`{"logged_in":true}`))
		case "/auth/user":
			_, _ = w.Write([]byte(`{"email":"me@example.com"}`))
		case "/logout":
			_, _ = w.Write([]byte(`{"status":"logged_out"}`))
		}
	}))

	ok, err := c.AuthStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	email, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", email)

	assert.NoError(t, c.Logout(context.Background()))
}

func TestSessionCookieIsSent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(SessionCookieName)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "abc123", ck.Value)
		_, _ = w.Write([]byte(`[]`))
	}))

	c.SetSessionCookie("abc123")
	assert.Equal(t, "abc123", c.SessionCookie())

	_, err := c.Labels(context.Background())
	assert.NoError(t, err)

	c.ClearSessionCookie()
	assert.Empty(t, c.SessionCookie())

	_, err = c.Labels(context.Background())
	assert.True(t, IsAuthError(err))
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := c.Labels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDecodeDetail(t *testing.T) {
	assert.Equal(t, "plain", decodeDetail([]byte(`{"detail":"plain"}`)))
	assert.Equal(t, `[{"loc":["body"]}]`, decodeDetail([]byte(`{"detail":[{"loc":["body"]}]}`)))
	assert.Empty(t, decodeDetail([]byte(`{"detail":null}`)))
	assert.Empty(t, decodeDetail([]byte(`not json`)))
}
