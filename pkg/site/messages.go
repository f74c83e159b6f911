package site

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
	"github.com/raids-lab/siteadmin/pkg/reply"
)

// Read filters.
const (
	ReadAll    = "all"
	ReadRead   = "read"
	ReadUnread = "unread"
)

type Messages struct {
	*manager.Manager[model.Message]
	replier Replier
}

func NewMessages(b gateway.Backend, replier Replier) *Messages {
	return &Messages{
		Manager: manager.New(gateway.From[model.Message](b, model.TableMessages), manager.Options[model.Message]{
			Order: []gateway.Order{gateway.Desc("received_at")},
			Fields: func(m model.Message) []string {
				return []string{m.Name, m.Email, m.Subject, m.Message}
			},
		}),
		replier: replier,
	}
}

func (m *Messages) FilterRead(term, read string) ([]model.Message, error) {
	var keep func(model.Message) bool
	switch read {
	case "", ReadAll:
	case ReadRead:
		keep = func(row model.Message) bool { return row.Read }
	case ReadUnread:
		keep = func(row model.Message) bool { return !row.Read }
	default:
		return nil, fmt.Errorf("%w: read %q", ErrInvalidFilter, read)
	}
	return m.FilterBy(term, keep), nil
}

func (m *Messages) UnreadCount() int {
	return lo.CountBy(m.Rows(), func(row model.Message) bool { return !row.Read })
}

// Open returns the message for viewing and marks it read when it was
// unread. An already read message causes no write.
func (m *Messages) Open(ctx context.Context, id int64) (model.Message, error) {
	msg, err := m.lookup(ctx, id)
	if err != nil {
		return msg, err
	}
	if msg.Read {
		return msg, nil
	}
	if err := m.SetRead(ctx, id, true); err != nil {
		return msg, err
	}
	if fresh, ok := m.Find(id); ok {
		return fresh, nil
	}
	msg.Read = true
	return msg, nil
}

func (m *Messages) SetRead(ctx context.Context, id int64, read bool) error {
	return m.Update(ctx, id, gateway.Patch{"read": read})
}

// Reply sends body to the author of message id through the reply endpoint.
func (m *Messages) Reply(ctx context.Context, id int64, body string) error {
	msg, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}
	if m.replier == nil {
		return reply.ErrNotConfigured
	}
	return m.replier.Send(ctx, reply.FromMessage(msg, body))
}

// lookup finds id in the snapshot, listing once if it is not there yet.
func (m *Messages) lookup(ctx context.Context, id int64) (model.Message, error) {
	if msg, ok := m.Find(id); ok {
		return msg, nil
	}
	if err := m.List(ctx); err != nil {
		return model.Message{}, err
	}
	if msg, ok := m.Find(id); ok {
		return msg, nil
	}
	return model.Message{}, fmt.Errorf("%w: message %d", ErrNotFound, id)
}
