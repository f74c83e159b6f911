package site

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

type ProjectForm struct {
	ID            *int64        `json:"id,omitempty"`
	Title         string        `json:"title" binding:"required"`
	Description   string        `json:"description"`
	ImageURL      string        `json:"image_url"`
	CategoryID    NumericString `json:"category_id"`
	ProjectImages []string      `json:"project_images"`
	URL           string        `json:"url"`
	GithubURL     string        `json:"github_url"`
	Technologies  []string      `json:"technologies"`
	AspectRatio   string        `json:"aspect_ratio"`
}

func (f ProjectForm) row() (model.PortfolioProject, error) {
	if f.CategoryID == "" {
		return model.PortfolioProject{}, ErrCategoryRequired
	}
	categoryID, err := f.CategoryID.Int()
	if err != nil {
		return model.PortfolioProject{}, fmt.Errorf("%w: %q is not an id", ErrCategoryRequired, f.CategoryID)
	}
	return model.PortfolioProject{
		Title:         f.Title,
		Description:   f.Description,
		ImageURL:      f.ImageURL,
		CategoryID:    categoryID,
		ProjectImages: cleanList(f.ProjectImages),
		URL:           f.URL,
		GithubURL:     f.GithubURL,
		Technologies:  cleanList(f.Technologies),
		AspectRatio:   f.AspectRatio,
	}, nil
}

type CategoryForm struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name" binding:"required"`
}

// Portfolio manages projects together with the categories they belong to.
type Portfolio struct {
	Projects   *manager.Manager[model.PortfolioProject]
	Categories *manager.Manager[model.PortfolioCategory]
}

func NewPortfolio(b gateway.Backend) *Portfolio {
	return &Portfolio{
		Projects: manager.New(gateway.From[model.PortfolioProject](b, model.TablePortfolioProjects),
			manager.Options[model.PortfolioProject]{
				Order: []gateway.Order{gateway.Desc("created_at")},
				Fields: func(p model.PortfolioProject) []string {
					return []string{p.Title, p.Description}
				},
			}),
		Categories: manager.New(gateway.From[model.PortfolioCategory](b, model.TablePortfolioCategories),
			manager.Options[model.PortfolioCategory]{
				Order:  []gateway.Order{gateway.Asc("name")},
				Fields: func(c model.PortfolioCategory) []string { return []string{c.Name} },
			}),
	}
}

// Load fetches projects and categories together; neither snapshot changes
// unless both fetches succeed.
func (p *Portfolio) Load(ctx context.Context) error {
	return manager.Join(ctx, p.Projects, p.Categories)
}

// List returns the projects with their category attached.
func (p *Portfolio) List() []model.PortfolioProject {
	return p.attach(p.Projects.Rows())
}

// Filter matches term against title and description. A nil categoryID
// keeps every category.
func (p *Portfolio) Filter(term string, categoryID *int64) []model.PortfolioProject {
	return p.attach(p.Projects.FilterBy(term, func(row model.PortfolioProject) bool {
		return categoryID == nil || row.CategoryID == *categoryID
	}))
}

func (p *Portfolio) attach(rows []model.PortfolioProject) []model.PortfolioProject {
	byID := lo.KeyBy(p.Categories.Rows(), func(c model.PortfolioCategory) int64 { return c.ID })
	for i := range rows {
		if c, ok := byID[rows[i].CategoryID]; ok {
			rows[i].Category = &c
		}
	}
	return rows
}

func (p *Portfolio) Prefill(row model.PortfolioProject) ProjectForm {
	return ProjectForm{
		ID:            ptr(row.ID),
		Title:         row.Title,
		Description:   row.Description,
		ImageURL:      row.ImageURL,
		CategoryID:    NumericString(fmt.Sprint(row.CategoryID)),
		ProjectImages: append([]string{}, row.ProjectImages...),
		URL:           row.URL,
		GithubURL:     row.GithubURL,
		Technologies:  append([]string{}, row.Technologies...),
		AspectRatio:   row.AspectRatio,
	}
}

func (p *Portfolio) Submit(ctx context.Context, form ProjectForm) error {
	row, err := form.row()
	if err != nil {
		return err
	}
	return submit(ctx, p.Projects, form.ID, row)
}

func (p *Portfolio) SubmitCategory(ctx context.Context, form CategoryForm) error {
	return submit(ctx, p.Categories, form.ID, model.PortfolioCategory{Name: form.Name})
}

// IsFormError reports whether err came from form validation rather than
// the gateway.
func IsFormError(err error) bool {
	return errors.Is(err, ErrCategoryRequired) || errors.Is(err, ErrInvalidRating) ||
		errors.Is(err, ErrInvalidStatus) || errors.Is(err, ErrUnknownPlatform) ||
		errors.Is(err, ErrInvalidFilter)
}
