// Package site implements the console screens on top of the generic
// managers: one type per screen, typed forms for every modal, and the
// screen-specific filters and actions.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/logutils"
	"github.com/raids-lab/siteadmin/pkg/manager"
	"github.com/raids-lab/siteadmin/pkg/reply"
)

var log = logutils.Named("site")

var (
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrCategoryRequired = errors.New("category is required")
	ErrUnknownPlatform  = errors.New("unknown social platform")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrNotFound         = errors.New("row not found")
)

// Replier delivers an operator reply to an inbound message.
type Replier interface {
	Send(ctx context.Context, r reply.Request) error
}

// Observable is what the metrics collector reads from every manager.
type Observable interface {
	Name() string
	Status() manager.Status
}

// Site wires every console screen to one gateway backend.
type Site struct {
	Services  *Services
	Home      *Home
	Portfolio *Portfolio
	Team      *Team
	Reviews   *Reviews
	Packages  *Packages
	Orders    *Orders
	Messages  *Messages
	Contact   *Contact
	Dashboard *Dashboard
}

func New(b gateway.Backend, replier Replier) *Site {
	return &Site{
		Services:  NewServices(b),
		Home:      NewHome(b),
		Portfolio: NewPortfolio(b),
		Team:      NewTeam(b),
		Reviews:   NewReviews(b),
		Packages:  NewPackages(b),
		Orders:    NewOrders(b),
		Messages:  NewMessages(b, replier),
		Contact:   NewContact(b),
		Dashboard: NewDashboard(b),
	}
}

// Observables lists every manager of every screen.
func (s *Site) Observables() []Observable {
	return []Observable{
		s.Services.Manager,
		s.Home.Content, s.Home.Images, s.Home.Stats, s.Home.Previews,
		s.Portfolio.Projects, s.Portfolio.Categories,
		s.Team.Manager,
		s.Reviews.Manager, s.Reviews.Stats,
		s.Packages.Manager,
		s.Orders.Manager,
		s.Messages.Manager,
		s.Contact.Singleton,
	}
}

// Refresh re-fetches every screen and the dashboard counts. A failing screen
// keeps its previous snapshot; the failures are joined.
func (s *Site) Refresh(ctx context.Context) error {
	loads := []func(context.Context) error{
		s.Services.List,
		s.Home.Load,
		s.Portfolio.Load,
		s.Team.List,
		s.Reviews.Load,
		s.Packages.List,
		s.Orders.List,
		s.Messages.List,
		s.Contact.Load,
		func(ctx context.Context) error {
			_, err := s.Dashboard.Load(ctx)
			return err
		},
	}
	var errs []error
	for _, load := range loads {
		if err := load(ctx); err != nil && !errors.Is(err, manager.ErrStale) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close discards every fetch still in flight.
func (s *Site) Close() {
	s.Services.Close()
	s.Home.Content.Close()
	s.Home.Images.Close()
	s.Home.Stats.Close()
	s.Home.Previews.Close()
	s.Portfolio.Projects.Close()
	s.Portfolio.Categories.Close()
	s.Team.Close()
	s.Reviews.Close()
	s.Reviews.Stats.Close()
	s.Packages.Close()
	s.Orders.Close()
	s.Messages.Close()
	s.Contact.Close()
}

// submit routes a form to the create path when id is nil and to the update
// path otherwise.
func submit[T any](ctx context.Context, m *manager.Manager[T], id *int64, row T) error {
	if id == nil {
		return m.Create(ctx, &row)
	}
	return m.Update(ctx, *id, gateway.PatchOf(row, "id", "created_at"))
}

// cleanList drops blank entries and keeps the order of the rest.
func cleanList(items []string) []string {
	return lo.Filter(items, func(s string, _ int) bool { return strings.TrimSpace(s) != "" })
}

// NumericString accepts a JSON string or number, the way a select element
// hands over ids.
type NumericString string

func (n *NumericString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*n = NumericString(num.String())
	return nil
}

// Int parses the value as a base-10 integer.
func (n NumericString) Int() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(n)), 10, 64)
}

func ptr[T any](v T) *T { return &v }
