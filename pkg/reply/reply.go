// Package reply forwards an operator's reply to an inbound message to the
// mail-sending endpoint, which composes and delivers the email.
package reply

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/logutils"
)

const (
	Path           = "/send-reply-email"
	genericFailure = "Failed to send reply via backend."
)

var (
	// ErrNotConfigured is returned before any network call when no
	// endpoint base URL is set.
	ErrNotConfigured = errors.New("reply endpoint base URL is not configured")
	ErrEmptyReply    = errors.New("reply body is empty")
)

var log = logutils.Named("reply")

// Request is the body the mail-sending endpoint expects.
type Request struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Subject         string `json:"subject"`
	OriginalMessage string `json:"originalMessage"`
	ReplyBody       string `json:"replyBody"`
}

// FromMessage builds the request answering msg with body.
func FromMessage(msg model.Message, body string) Request {
	return Request{
		Name:            msg.Name,
		Email:           msg.Email,
		Subject:         msg.Subject,
		OriginalMessage: msg.Message,
		ReplyBody:       body,
	}
}

// Error is a non-2xx answer from the endpoint.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("reply endpoint: %s (status %d)", e.Message, e.Status)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type Dispatcher struct {
	baseURL string
	client  *req.Client
}

// New returns a Dispatcher for baseURL. An empty baseURL is accepted here
// and reported by Send.
func New(baseURL string, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  req.C().SetTimeout(timeout),
	}
}

// Send posts r once. It never retries.
func (d *Dispatcher) Send(ctx context.Context, r Request) error {
	if d.baseURL == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(r.ReplyBody) == "" {
		return ErrEmptyReply
	}
	var failure errorBody
	resp, err := d.client.R().
		SetContext(ctx).
		SetBody(r).
		SetErrorResult(&failure).
		Post(d.baseURL + Path)
	if resp == nil || resp.Response == nil {
		log.Error(err, "reply request failed", "to", r.Email)
		return fmt.Errorf("send reply: %w", err)
	}
	// an unparsable error body still leaves the status to report
	if !resp.IsSuccessState() {
		msg := failure.Message
		if msg == "" {
			msg = failure.Error
		}
		if msg == "" {
			msg = genericFailure
		}
		log.Info("reply endpoint refused", "status", resp.StatusCode, "message", msg)
		return &Error{Status: resp.StatusCode, Message: msg}
	}
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	log.V(2).Info("reply sent", "to", r.Email)
	return nil
}
