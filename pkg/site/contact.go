package site

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/manager"
)

type ContactForm struct {
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	BusinessHours string            `json:"business_hours"`
	SocialLinks   map[string]string `json:"social_links"`
}

// Contact edits the single contact_info row.
type Contact struct {
	*manager.Singleton[model.ContactInfo]
}

func NewContact(b gateway.Backend) *Contact {
	return &Contact{manager.NewSingleton(gateway.From[model.ContactInfo](b, model.TableContactInfo))}
}

// Form returns the loaded row as a form; an empty collection gives a blank one.
func (c *Contact) Form() ContactForm {
	row, ok := c.Get()
	form := ContactForm{SocialLinks: map[string]string{}}
	if !ok {
		return form
	}
	form.Email = row.Email
	form.Phone = row.Phone
	form.Address = row.Address
	form.BusinessHours = row.BusinessHours
	links := row.SocialLinks.Data()
	for platform, v := range map[string]*string{
		model.SocialFacebook:  links.Facebook,
		model.SocialTwitter:   links.Twitter,
		model.SocialLinkedIn:  links.LinkedIn,
		model.SocialInstagram: links.Instagram,
		model.SocialYouTube:   links.YouTube,
		model.SocialGitHub:    links.GitHub,
	} {
		if v != nil {
			form.SocialLinks[platform] = *v
		}
	}
	return form
}

// Submit saves the form and reports the outcome; nothing is retried.
func (c *Contact) Submit(ctx context.Context, form ContactForm) error {
	links, err := socialLinks(form.SocialLinks)
	if err != nil {
		return err
	}
	return c.Save(ctx, model.ContactInfo{
		Email:         form.Email,
		Phone:         form.Phone,
		Address:       form.Address,
		BusinessHours: form.BusinessHours,
		SocialLinks:   datatypes.NewJSONType(links),
	})
}

func socialLinks(in map[string]string) (model.SocialLinks, error) {
	var links model.SocialLinks
	for platform, url := range in {
		var v *string
		if strings.TrimSpace(url) != "" {
			v = ptr(url)
		}
		switch platform {
		case model.SocialFacebook:
			links.Facebook = v
		case model.SocialTwitter:
			links.Twitter = v
		case model.SocialLinkedIn:
			links.LinkedIn = v
		case model.SocialInstagram:
			links.Instagram = v
		case model.SocialYouTube:
			links.YouTube = v
		case model.SocialGitHub:
			links.GitHub = v
		default:
			return links, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
		}
	}
	return links, nil
}
