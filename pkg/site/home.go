package site

import (
	"context"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

type HomeContentForm struct {
	HeroTitle       string `json:"hero_title"`
	HeroSubtitle    string `json:"hero_subtitle"`
	HeroDescription string `json:"hero_description"`
	CTATitle        string `json:"cta_title"`
	CTASubtitle     string `json:"cta_subtitle"`
}

type HeroImageForm struct {
	ID           *int64 `json:"id,omitempty"`
	ImageURL     string `json:"image_url" binding:"required"`
	DisplayOrder int    `json:"display_order"`
}

type HomeStatForm struct {
	ID           *int64 `json:"id,omitempty"`
	Number       string `json:"number"`
	Label        string `json:"label"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
}

type ServicePreviewForm struct {
	ID           *int64 `json:"id,omitempty"`
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

// Home groups the landing page copy with its three satellite collections.
type Home struct {
	Content  *manager.Singleton[model.HomeContent]
	Images   *manager.Manager[model.HeroImage]
	Stats    *manager.Manager[model.HomeStat]
	Previews *manager.Manager[model.HomeServicePreview]
}

func NewHome(b gateway.Backend) *Home {
	byDisplayOrder := []gateway.Order{gateway.Asc("display_order")}
	return &Home{
		Content: manager.NewSingleton(gateway.From[model.HomeContent](b, model.TableHomeContent)),
		Images: manager.New(gateway.From[model.HeroImage](b, model.TableHeroImages),
			manager.Options[model.HeroImage]{Order: byDisplayOrder}),
		Stats: manager.New(gateway.From[model.HomeStat](b, model.TableHomeStats),
			manager.Options[model.HomeStat]{Order: byDisplayOrder}),
		Previews: manager.New(gateway.From[model.HomeServicePreview](b, model.TableHomeServicesPreview),
			manager.Options[model.HomeServicePreview]{
				Order: byDisplayOrder,
				Fields: func(p model.HomeServicePreview) []string {
					return []string{p.Title, p.Description}
				},
			}),
	}
}

// Load fetches all four collections; a single failure leaves every
// snapshot as it was.
func (h *Home) Load(ctx context.Context) error {
	return manager.Join(ctx, h.Content, h.Images, h.Stats, h.Previews)
}

func (h *Home) ContentForm() HomeContentForm {
	row, _ := h.Content.Get()
	return HomeContentForm{
		HeroTitle:       row.HeroTitle,
		HeroSubtitle:    row.HeroSubtitle,
		HeroDescription: row.HeroDescription,
		CTATitle:        row.CTATitle,
		CTASubtitle:     row.CTASubtitle,
	}
}

func (h *Home) SaveContent(ctx context.Context, form HomeContentForm) error {
	return h.Content.Save(ctx, model.HomeContent{
		HeroTitle:       form.HeroTitle,
		HeroSubtitle:    form.HeroSubtitle,
		HeroDescription: form.HeroDescription,
		CTATitle:        form.CTATitle,
		CTASubtitle:     form.CTASubtitle,
	})
}

func (h *Home) SubmitImage(ctx context.Context, form HeroImageForm) error {
	return submit(ctx, h.Images, form.ID, model.HeroImage{
		ImageURL:     form.ImageURL,
		DisplayOrder: form.DisplayOrder,
	})
}

func (h *Home) SubmitStat(ctx context.Context, form HomeStatForm) error {
	return submit(ctx, h.Stats, form.ID, model.HomeStat{
		Number:       form.Number,
		Label:        form.Label,
		Icon:         form.Icon,
		DisplayOrder: form.DisplayOrder,
	})
}

func (h *Home) SubmitPreview(ctx context.Context, form ServicePreviewForm) error {
	return submit(ctx, h.Previews, form.ID, model.HomeServicePreview{
		Title:        form.Title,
		Description:  form.Description,
		ImageURL:     form.ImageURL,
		DisplayOrder: form.DisplayOrder,
	})
}
