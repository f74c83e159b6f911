// Package mailer is the mail-sending function behind the reply endpoint:
// it turns a reply request into an HTML email and hands it to a transport.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/raids-lab/siteadmin/pkg/logutils"
)

var (
	ErrNoRecipient = errors.New("recipient email is required")
	ErrNoReplyBody = errors.New("replyBody is required")
)

var log = logutils.Named("mailer")

// Sender is implemented by every transport. The returned value is passed
// back to the caller as the response data.
type Sender interface {
	Send(ctx context.Context, msg *Message) (any, error)
}

// Message is a composed email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Request is the body accepted by the reply endpoint. originalMessage is
// what the console sends; message is accepted too.
type Request struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Subject         string `json:"subject"`
	Message         string `json:"message"`
	OriginalMessage string `json:"originalMessage"`
	ReplyBody       string `json:"replyBody"`
}

// Original returns the quoted message, preferring message over its alias.
func (r Request) Original() string {
	if r.Message != "" {
		return r.Message
	}
	return r.OriginalMessage
}

var replyTemplate = template.Must(template.New("reply").Parse(`
<p>Dear {{.Name}},</p>
<p>{{.ReplyBody}}</p>
<br/>
<p>--- Original Message ---</p>
<p>From: {{.Name}} ({{.Email}})</p>
<p>Subject: {{.Subject}}</p>
<p>{{.Original}}</p>
`))

// Compose builds the reply email sent from sender.
func Compose(req Request, sender string) (*Message, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrNoRecipient
	}
	if strings.TrimSpace(req.ReplyBody) == "" {
		return nil, ErrNoReplyBody
	}
	var body bytes.Buffer
	if err := replyTemplate.Execute(&body, req); err != nil {
		return nil, err
	}
	return &Message{
		From:    sender,
		To:      []string{req.Email},
		Subject: "Re: " + req.Subject,
		HTML:    body.String(),
	}, nil
}
