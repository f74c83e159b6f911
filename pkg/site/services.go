package site

import (
	"context"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

type ServiceForm struct {
	ID           *int64   `json:"id,omitempty"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Icon         string   `json:"icon"`
	ImageURL     string   `json:"image_url"`
	Features     []string `json:"features"`
	DisplayOrder int      `json:"display_order"`
}

func (f ServiceForm) row() model.Service {
	return model.Service{
		Title:        f.Title,
		Description:  f.Description,
		Icon:         f.Icon,
		ImageURL:     f.ImageURL,
		Features:     cleanList(f.Features),
		DisplayOrder: f.DisplayOrder,
	}
}

type Services struct {
	*manager.Manager[model.Service]
}

func NewServices(b gateway.Backend) *Services {
	return &Services{manager.New(gateway.From[model.Service](b, model.TableServices), manager.Options[model.Service]{
		Order:  []gateway.Order{gateway.Asc("display_order")},
		Fields: func(s model.Service) []string { return []string{s.Title, s.Description} },
	})}
}

func (s *Services) Prefill(row model.Service) ServiceForm {
	return ServiceForm{
		ID:           ptr(row.ID),
		Title:        row.Title,
		Description:  row.Description,
		Icon:         row.Icon,
		ImageURL:     row.ImageURL,
		Features:     append([]string{}, row.Features...),
		DisplayOrder: row.DisplayOrder,
	}
}

func (s *Services) Submit(ctx context.Context, form ServiceForm) error {
	return submit(ctx, s.Manager, form.ID, form.row())
}
