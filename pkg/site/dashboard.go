package site

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
)

// Counts is the dashboard summary.
type Counts struct {
	Services    int64 `json:"services"`
	Projects    int64 `json:"projects"`
	Reviews     int64 `json:"reviews"`
	Orders      int64 `json:"orders"`
	Messages    int64 `json:"messages"`
	TeamMembers int64 `json:"teamMembers"`
}

// Dashboard counts the main collections. Counts are all-or-nothing: if any
// collection fails the previous summary is kept.
type Dashboard struct {
	backend gateway.Backend

	mu       sync.RWMutex
	counts   Counts
	loadedAt time.Time
}

func NewDashboard(b gateway.Backend) *Dashboard {
	return &Dashboard{backend: b}
}

func (d *Dashboard) Load(ctx context.Context) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		dst   *int64
	}{
		{model.TableServices, &c.Services},
		{model.TablePortfolioProjects, &c.Projects},
		{model.TableReviews, &c.Reviews},
		{model.TableOrders, &c.Orders},
		{model.TableMessages, &c.Messages},
		{model.TableTeamMembers, &c.TeamMembers},
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			n, err := d.backend.Table(t.table).Count(gctx)
			*t.dst = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Error(err, "dashboard counts failed, keeping previous values")
		return d.Counts(), err
	}
	d.mu.Lock()
	d.counts = c
	d.loadedAt = time.Now()
	d.mu.Unlock()
	return c, nil
}

func (d *Dashboard) Counts() Counts {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.counts
}
