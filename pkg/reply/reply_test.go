package reply

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/imroc/req/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/siteadmin/dao/model"
)

func TestSendNotConfigured(t *testing.T) {
	d := New("", time.Second)
	var hits atomic.Int32
	d.client.WrapRoundTripFunc(func(rt req.RoundTripper) req.RoundTripFunc {
		return func(r *req.Request) (*req.Response, error) {
			hits.Add(1)
			return rt.RoundTrip(r)
		}
	})

	err := d.Send(context.Background(), Request{ReplyBody: "hello"})
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, hits.Load())
}

func TestSendEmptyBody(t *testing.T) {
	err := New("http://127.0.0.1:1", time.Second).Send(context.Background(), Request{ReplyBody: "  "})
	require.ErrorIs(t, err, ErrEmptyReply)
}

func TestSendPostsRequest(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, Path, r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
	}))
	defer srv.Close()

	msg := model.Message{Name: "Ada", Email: "ada@example.com", Subject: "Quote", Message: "How much?"}
	err := New(srv.URL+"/", time.Second).Send(context.Background(), FromMessage(msg, "About 10k."))
	require.NoError(t, err)
	assert.Equal(t, Request{
		Name:            "Ada",
		Email:           "ada@example.com",
		Subject:         "Quote",
		OriginalMessage: "How much?",
		ReplyBody:       "About 10k.",
	}, got)
}

func TestSendSurfacesEndpointMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second).Send(context.Background(), Request{ReplyBody: "hi"})
	require.Error(t, err)
	var replyErr *Error
	require.True(t, errors.As(err, &replyErr))
	assert.Equal(t, http.StatusInternalServerError, replyErr.Status)
	assert.Equal(t, "boom", replyErr.Message)
	assert.Contains(t, err.Error(), "boom")
}

func TestSendFallbackMessages(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"error field": {`{"error":"quota exceeded"}`, "quota exceeded"},
		"empty body":  {`{}`, genericFailure},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			err := New(srv.URL, time.Second).Send(context.Background(), Request{ReplyBody: "hi"})
			var replyErr *Error
			require.ErrorAs(t, err, &replyErr)
			assert.Equal(t, tc.want, replyErr.Message)
		})
	}
}
