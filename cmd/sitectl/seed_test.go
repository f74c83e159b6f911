package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/siteadmin/pkg/gateway/memory"
	"github.com/raids-lab/siteadmin/pkg/site"
)

func TestSeedFixture(t *testing.T) {
	f, err := os.Open("testdata/site.yaml")
	require.NoError(t, err)
	defer f.Close()

	fx, err := readFixture(f)
	require.NoError(t, err)

	ctx := context.Background()
	s := site.New(memory.New(), nil)
	defer s.Close()

	written, err := fx.apply(ctx, s)
	require.NoError(t, err)
	assert.Len(t, written, 12)

	counts, err := s.Dashboard.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, site.Counts{Services: 2, Projects: 1, Reviews: 1, TeamMembers: 1}, counts)

	require.NoError(t, s.Services.List(ctx))
	services := s.Services.Rows()
	require.Len(t, services, 2)
	assert.Equal(t, "Web Design", services[0].Title)
	assert.Equal(t, []string{"Responsive", "SEO"}, []string(services[0].Features))

	require.NoError(t, s.Portfolio.Load(ctx))
	projects := s.Portfolio.List()
	require.Len(t, projects, 1)
	require.NotNil(t, projects[0].Category)
	assert.Equal(t, "Web", projects[0].Category.Name)

	assert.Equal(t, "hello@example.com", s.Contact.Form().Email)
}

func TestSeedStopsAtFirstBadRow(t *testing.T) {
	fx, err := readFixture(strings.NewReader(`
services:
  - title: Web Design
portfolio_projects:
  - title: Orphan
`))
	require.NoError(t, err)

	s := site.New(memory.New(), nil)
	defer s.Close()

	written, err := fx.apply(context.Background(), s)
	require.Error(t, err)
	assert.ErrorIs(t, err, site.ErrCategoryRequired)
	assert.Contains(t, err.Error(), "portfolio_projects[0]")
	assert.Equal(t, []seeded{{section: "services", rows: 1}}, written)
}

func TestReadFixtureRejectsUnknownSection(t *testing.T) {
	_, err := readFixture(strings.NewReader("blog_posts:\n  - title: x\n"))
	require.Error(t, err)
}
