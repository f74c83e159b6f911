package site

import (
	"context"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

type PackageForm struct {
	ID          *int64   `json:"id,omitempty"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Features    []string `json:"features"`
	IsPopular   bool     `json:"is_popular"`
}

type Packages struct {
	*manager.Manager[model.Package]
}

func NewPackages(b gateway.Backend) *Packages {
	return &Packages{manager.New(gateway.From[model.Package](b, model.TablePackages), manager.Options[model.Package]{
		Order:  []gateway.Order{gateway.Desc("created_at")},
		Fields: func(p model.Package) []string { return []string{p.Title, p.Description} },
	})}
}

func (p *Packages) Prefill(row model.Package) PackageForm {
	return PackageForm{
		ID:          ptr(row.ID),
		Title:       row.Title,
		Description: row.Description,
		Price:       row.Price,
		Features:    append([]string{}, row.Features...),
		IsPopular:   row.IsPopular,
	}
}

// Submit saves a package. More than one popular package is allowed.
func (p *Packages) Submit(ctx context.Context, form PackageForm) error {
	return submit(ctx, p.Manager, form.ID, model.Package{
		Title:       form.Title,
		Description: form.Description,
		Price:       form.Price,
		Features:    cleanList(form.Features),
		IsPopular:   form.IsPopular,
	})
}
