package site

import (
	"context"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

type TeamMemberForm struct {
	ID           *int64 `json:"id,omitempty"`
	Name         string `json:"name" binding:"required"`
	Designation  string `json:"designation"`
	ImageURL     string `json:"image_url"`
	Bio          string `json:"bio"`
	Specialties  string `json:"specialties"`
	SocialURLA   string `json:"social_url_a"`
	SocialURLB   string `json:"social_url_b"`
	SocialURLC   string `json:"social_url_c"`
	DisplayOrder int    `json:"display_order"`
}

type Team struct {
	*manager.Manager[model.TeamMember]
}

func NewTeam(b gateway.Backend) *Team {
	return &Team{manager.New(gateway.From[model.TeamMember](b, model.TableTeamMembers), manager.Options[model.TeamMember]{
		Order: []gateway.Order{gateway.Asc("display_order")},
		Fields: func(m model.TeamMember) []string {
			return []string{m.Name, m.Designation, m.Specialties}
		},
	})}
}

func (t *Team) Prefill(row model.TeamMember) TeamMemberForm {
	return TeamMemberForm{
		ID:           ptr(row.ID),
		Name:         row.Name,
		Designation:  row.Designation,
		ImageURL:     row.ImageURL,
		Bio:          row.Bio,
		Specialties:  row.Specialties,
		SocialURLA:   row.SocialURLA,
		SocialURLB:   row.SocialURLB,
		SocialURLC:   row.SocialURLC,
		DisplayOrder: row.DisplayOrder,
	}
}

func (t *Team) Submit(ctx context.Context, form TeamMemberForm) error {
	return submit(ctx, t.Manager, form.ID, model.TeamMember{
		Name:         form.Name,
		Designation:  form.Designation,
		ImageURL:     form.ImageURL,
		Bio:          form.Bio,
		Specialties:  form.Specialties,
		SocialURLA:   form.SocialURLA,
		SocialURLB:   form.SocialURLB,
		SocialURLC:   form.SocialURLC,
		DisplayOrder: form.DisplayOrder,
	})
}
