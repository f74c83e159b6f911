package site

import (
	"context"
	"fmt"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

// Approval filters.
const (
	ApprovalAll      = "all"
	ApprovalApproved = "approved"
	ApprovalPending  = "pending"
)

type ReviewForm struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name" binding:"required"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	CompanyURL  string `json:"company_url"`
	Project     string `json:"project"`
	Rating      int    `json:"rating"`
	Review      string `json:"review"`
	ImageURL    string `json:"image_url"`
	Approved    bool   `json:"approved"`
}

type ReviewStatForm struct {
	ID     *int64 `json:"id,omitempty"`
	Number string `json:"number"`
	Label  string `json:"label"`
	Order  int    `json:"order"`
}

type Reviews struct {
	*manager.Manager[model.Review]
	Stats *manager.Manager[model.ReviewStat]
}

func NewReviews(b gateway.Backend) *Reviews {
	return &Reviews{
		Manager: manager.New(gateway.From[model.Review](b, model.TableReviews), manager.Options[model.Review]{
			Order: []gateway.Order{gateway.Desc("created_at")},
			Fields: func(r model.Review) []string {
				return []string{r.Name, r.Company, r.Project}
			},
		}),
		Stats: manager.New(gateway.From[model.ReviewStat](b, model.TableReviewStats), manager.Options[model.ReviewStat]{
			Order: []gateway.Order{gateway.Asc("order")},
		}),
	}
}

func (r *Reviews) Load(ctx context.Context) error {
	return manager.Join(ctx, r.Manager, r.Stats)
}

// FilterApproval narrows the search result to approved or pending reviews.
func (r *Reviews) FilterApproval(term, approval string) ([]model.Review, error) {
	var keep func(model.Review) bool
	switch approval {
	case "", ApprovalAll:
	case ApprovalApproved:
		keep = func(row model.Review) bool { return row.Approved }
	case ApprovalPending:
		keep = func(row model.Review) bool { return !row.Approved }
	default:
		return nil, fmt.Errorf("%w: approval %q", ErrInvalidFilter, approval)
	}
	return r.FilterBy(term, keep), nil
}

// SetApproval writes only the approved flag. Setting the current value
// again is harmless.
func (r *Reviews) SetApproval(ctx context.Context, id int64, approved bool) error {
	return r.Update(ctx, id, gateway.Patch{"approved": approved})
}

func (r *Reviews) Prefill(row model.Review) ReviewForm {
	return ReviewForm{
		ID:          ptr(row.ID),
		Name:        row.Name,
		Designation: row.Designation,
		Company:     row.Company,
		CompanyURL:  row.CompanyURL,
		Project:     row.Project,
		Rating:      row.Rating,
		Review:      row.Review,
		ImageURL:    row.ImageURL,
		Approved:    row.Approved,
	}
}

func (r *Reviews) Submit(ctx context.Context, form ReviewForm) error {
	if form.Rating < model.RatingMin || form.Rating > model.RatingMax {
		return fmt.Errorf("%w: got %d", ErrInvalidRating, form.Rating)
	}
	return submit(ctx, r.Manager, form.ID, model.Review{
		Name:        form.Name,
		Designation: form.Designation,
		Company:     form.Company,
		CompanyURL:  form.CompanyURL,
		Project:     form.Project,
		Rating:      form.Rating,
		Review:      form.Review,
		ImageURL:    form.ImageURL,
		Approved:    form.Approved,
	})
}

func (r *Reviews) SubmitStat(ctx context.Context, form ReviewStatForm) error {
	return submit(ctx, r.Stats, form.ID, model.ReviewStat{
		Number: form.Number,
		Label:  form.Label,
		Order:  form.Order,
	})
}
