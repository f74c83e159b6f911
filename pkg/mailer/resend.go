package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"
)

// Resend sends through the Resend HTTP API.
type Resend struct {
	client *req.Client
}

type resendEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func NewResend(baseURL, apiKey string) *Resend {
	return &Resend{
		client: req.C().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetCommonBearerAuthToken(apiKey).
			SetTimeout(30 * time.Second),
	}
}

func (r *Resend) Send(ctx context.Context, msg *Message) (any, error) {
	var (
		data    map[string]any
		failure resendError
	)
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(resendEmail{From: msg.From, To: msg.To, Subject: msg.Subject, HTML: msg.HTML}).
		SetSuccessResult(&data).
		SetErrorResult(&failure).
		Post("/emails")
	if resp == nil || resp.Response == nil {
		return nil, fmt.Errorf("resend: %w", err)
	}
	if !resp.IsSuccessState() {
		if failure.Message == "" {
			failure.Message = resp.Status
		}
		return nil, fmt.Errorf("resend: %s", failure.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("resend: %w", err)
	}
	log.Info("sent reply", "transport", "resend", "to", msg.To, "id", data["id"])
	return data, nil
}
