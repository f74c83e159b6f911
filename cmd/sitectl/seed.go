package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/raids-lab/siteadmin/pkg/site"
)

// fixture mirrors the console's forms. Keys inside each row use the same
// names as the JSON API.
type fixture struct {
	HomeContent       map[string]any   `yaml:"home_content"`
	HeroImages        []map[string]any `yaml:"hero_images"`
	HomeStats         []map[string]any `yaml:"home_stats"`
	ServicePreviews   []map[string]any `yaml:"service_previews"`
	Services          []map[string]any `yaml:"services"`
	Team              []map[string]any `yaml:"team"`
	Packages          []map[string]any `yaml:"packages"`
	PortfolioCategory []map[string]any `yaml:"portfolio_categories"`
	PortfolioProjects []map[string]any `yaml:"portfolio_projects"`
	Reviews           []map[string]any `yaml:"reviews"`
	ReviewStats       []map[string]any `yaml:"review_stats"`
	Contact           map[string]any   `yaml:"contact"`
}

type seeded struct {
	section string
	rows    int
}

func readFixture(r io.Reader) (*fixture, error) {
	var fx fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("sitectl: parse fixture: %w", err)
	}
	return &fx, nil
}

// apply writes sections in dependency order: categories before projects.
// It stops at the first failing row and reports what was written so far.
func (fx *fixture) apply(ctx context.Context, s *site.Site) ([]seeded, error) {
	var written []seeded
	steps := []func() (seeded, error){
		func() (seeded, error) { return seedOne(ctx, "home_content", fx.HomeContent, s.Home.SaveContent) },
		func() (seeded, error) { return seedRows(ctx, "hero_images", fx.HeroImages, s.Home.SubmitImage) },
		func() (seeded, error) { return seedRows(ctx, "home_stats", fx.HomeStats, s.Home.SubmitStat) },
		func() (seeded, error) {
			return seedRows(ctx, "service_previews", fx.ServicePreviews, s.Home.SubmitPreview)
		},
		func() (seeded, error) { return seedRows(ctx, "services", fx.Services, s.Services.Submit) },
		func() (seeded, error) { return seedRows(ctx, "team", fx.Team, s.Team.Submit) },
		func() (seeded, error) { return seedRows(ctx, "packages", fx.Packages, s.Packages.Submit) },
		func() (seeded, error) {
			return seedRows(ctx, "portfolio_categories", fx.PortfolioCategory, s.Portfolio.SubmitCategory)
		},
		func() (seeded, error) {
			return seedRows(ctx, "portfolio_projects", fx.PortfolioProjects, s.Portfolio.Submit)
		},
		func() (seeded, error) { return seedRows(ctx, "reviews", fx.Reviews, s.Reviews.Submit) },
		func() (seeded, error) { return seedRows(ctx, "review_stats", fx.ReviewStats, s.Reviews.SubmitStat) },
		func() (seeded, error) { return seedOne(ctx, "contact", fx.Contact, s.Contact.Submit) },
	}
	for _, step := range steps {
		res, err := step()
		if res.rows > 0 {
			written = append(written, res)
		}
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func seedRows[F any](ctx context.Context, section string, rows []map[string]any,
	submit func(context.Context, F) error) (seeded, error) {
	res := seeded{section: section}
	for i, raw := range rows {
		var form F
		if err := decodeRow(raw, &form); err != nil {
			return res, fmt.Errorf("sitectl: %s[%d]: %w", section, i, err)
		}
		if err := submit(ctx, form); err != nil {
			return res, fmt.Errorf("sitectl: %s[%d]: %w", section, i, err)
		}
		res.rows++
	}
	return res, nil
}

func seedOne[F any](ctx context.Context, section string, raw map[string]any,
	submit func(context.Context, F) error) (seeded, error) {
	if raw == nil {
		return seeded{section: section}, nil
	}
	return seedRows(ctx, section, []map[string]any{raw}, submit)
}

// decodeRow routes a YAML row through the forms' JSON decoding so the
// fixture accepts exactly what the API accepts.
func decodeRow(raw map[string]any, dst any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
