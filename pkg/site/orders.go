package site

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Orders come from the public checkout; the console reads them, moves them
// through the status set and deletes them.
type Orders struct {
	*manager.Manager[model.Order]
}

func NewOrders(b gateway.Backend) *Orders {
	return &Orders{manager.New(gateway.From[model.Order](b, model.TableOrders), manager.Options[model.Order]{
		Order: []gateway.Order{gateway.Desc("created_at")},
		Fields: func(o model.Order) []string {
			return []string{o.Name, o.Email, o.Company, o.PackageName, o.OrderID}
		},
	})}
}

func (o *Orders) FilterStatus(term, status string) ([]model.Order, error) {
	if status == "" || status == StatusAll {
		return o.Filter(term), nil
	}
	want, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	return o.FilterBy(term, func(row model.Order) bool { return row.Status == want }), nil
}

// SetStatus writes only the status field.
func (o *Orders) SetStatus(ctx context.Context, id int64, status string) error {
	s, err := model.ParseOrderStatus(status)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStatus, err)
	}
	return o.Update(ctx, id, gateway.Patch{"status": s})
}

// StatusCounts tallies the snapshot by status; every status is present.
func (o *Orders) StatusCounts() map[model.OrderStatus]int {
	counts := lo.CountValuesBy(o.Rows(), func(row model.Order) model.OrderStatus { return row.Status })
	for _, s := range model.OrderStatuses {
		if _, ok := counts[s]; !ok {
			counts[s] = 0
		}
	}
	return counts
}
