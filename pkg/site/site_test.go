package site

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/gateway/memory"
	"github.com/raids-lab/siteadmin/pkg/reply"
)

var errDown = errors.New("store unavailable")

type recordingReplier struct {
	sent []reply.Request
}

func (r *recordingReplier) Send(_ context.Context, req reply.Request) error {
	r.sent = append(r.sent, req)
	return nil
}

func newBackend() *memory.Backend {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return memory.New(memory.WithClock(func() time.Time {
		at = at.Add(time.Minute)
		return at
	}))
}

func seed[T any](t *testing.T, b gateway.Backend, table string, rows ...T) {
	t.Helper()
	tbl := gateway.From[T](b, table)
	for i := range rows {
		require.NoError(t, tbl.Insert(context.Background(), &rows[i]))
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	seed(t, b, model.TableOrders,
		model.Order{OrderID: "A-1", Name: "Ada", Status: model.OrderPending},
		model.Order{OrderID: "A-2", Name: "Grace", Status: model.OrderPending},
	)
	orders := NewOrders(b)
	require.NoError(t, orders.List(ctx))

	for _, status := range model.OrderStatuses {
		require.NoError(t, orders.SetStatus(ctx, 1, string(status)))
		first, ok := orders.Find(1)
		require.True(t, ok)
		assert.Equal(t, status, first.Status)
		other, _ := orders.Find(2)
		assert.Equal(t, model.OrderPending, other.Status, "unrelated order must not change")
	}

	before := orders.Rows()
	err := orders.SetStatus(ctx, 1, "shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, before, orders.Rows())
}

func TestOrderFilters(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	seed(t, b, model.TableOrders,
		model.Order{OrderID: "A-1", Name: "Ada", Company: "Analytical", PackageName: "Starter", Status: model.OrderPending},
		model.Order{OrderID: "A-2", Name: "Grace", Company: "Navy", PackageName: "Pro", Status: model.OrderCompleted},
		model.Order{OrderID: "B-3", Name: "Linus", Email: "linus@example.com", PackageName: "Pro", Status: model.OrderInProgress},
	)
	orders := NewOrders(b)
	require.NoError(t, orders.List(ctx))

	pro, err := orders.FilterStatus("pro", StatusAll)
	require.NoError(t, err)
	assert.Len(t, pro, 2)

	done, err := orders.FilterStatus("pro", string(model.OrderCompleted))
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "Grace", done[0].Name)

	byID, err := orders.FilterStatus("b-3", "")
	require.NoError(t, err)
	require.Len(t, byID, 1)

	_, err = orders.FilterStatus("", "archived")
	require.ErrorIs(t, err, ErrInvalidStatus)

	counts := orders.StatusCounts()
	assert.Equal(t, 1, counts[model.OrderPending])
	assert.Equal(t, 1, counts[model.OrderInProgress])
	assert.Equal(t, 1, counts[model.OrderCompleted])
	assert.Equal(t, 0, counts[model.OrderCancelled])
}

func TestReviewApprovalIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	seed(t, b, model.TableReviews,
		model.Review{Name: "Ada", Rating: 5, Approved: true},
		model.Review{Name: "Grace", Rating: 4},
	)
	reviews := NewReviews(b)
	require.NoError(t, reviews.Load(ctx))

	for range 2 {
		require.NoError(t, reviews.SetApproval(ctx, 1, true))
		row, _ := reviews.Find(1)
		assert.True(t, row.Approved)
	}
	for range 2 {
		require.NoError(t, reviews.SetApproval(ctx, 2, false))
		row, _ := reviews.Find(2)
		assert.False(t, row.Approved)
	}

	pending, err := reviews.FilterApproval("", ApprovalPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Grace", pending[0].Name)

	_, err = reviews.FilterApproval("", "maybe")
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestReviewFormValidation(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	reviews := NewReviews(b)

	for _, rating := range []int{0, 6} {
		err := reviews.Submit(ctx, ReviewForm{Name: "Ada", Rating: rating})
		require.ErrorIs(t, err, ErrInvalidRating)
	}
	assert.Zero(t, b.Collection(model.TableReviews).Len())

	require.NoError(t, reviews.Submit(ctx, ReviewForm{Name: "Ada", Rating: 3}))
	require.Equal(t, 1, reviews.Len())

	form := reviews.Prefill(reviews.Rows()[0])
	require.NotNil(t, form.ID)
	form.Rating = 5
	require.NoError(t, reviews.Submit(ctx, form))
	row, _ := reviews.Find(*form.ID)
	assert.Equal(t, 5, row.Rating)
	assert.Equal(t, 1, reviews.Len())
}

func TestReviewStatsUseOrderColumn(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	reviews := NewReviews(b)
	require.NoError(t, reviews.SubmitStat(ctx, ReviewStatForm{Number: "98%", Label: "Happy", Order: 2}))
	require.NoError(t, reviews.SubmitStat(ctx, ReviewStatForm{Number: "120", Label: "Projects", Order: 1}))

	labels := lo.Map(reviews.Stats.Rows(), func(s model.ReviewStat, _ int) string { return s.Label })
	assert.Equal(t, []string{"Projects", "Happy"}, labels)
}

func TestPortfolioForm(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	portfolio := NewPortfolio(b)
	require.NoError(t, portfolio.SubmitCategory(ctx, CategoryForm{Name: "Web"}))
	require.NoError(t, portfolio.SubmitCategory(ctx, CategoryForm{Name: "Mobile"}))

	err := portfolio.Submit(ctx, ProjectForm{Title: "Shop"})
	require.ErrorIs(t, err, ErrCategoryRequired)
	err = portfolio.Submit(ctx, ProjectForm{Title: "Shop", CategoryID: "web"})
	require.ErrorIs(t, err, ErrCategoryRequired)
	assert.True(t, IsFormError(err))

	var form ProjectForm
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Shop",
		"category_id": 1,
		"technologies": ["Go", "", "  ", "Postgres"],
		"project_images": ["", "https://cdn/x.png"]
	}`), &form))
	require.NoError(t, portfolio.Submit(ctx, form))
	require.NoError(t, portfolio.Submit(ctx, ProjectForm{Title: "App", CategoryID: "2"}))
	require.NoError(t, portfolio.Load(ctx))

	projects := portfolio.List()
	require.Len(t, projects, 2)
	assert.Equal(t, "App", projects[0].Title, "newest first")
	shop := projects[1]
	assert.Equal(t, []string{"Go", "Postgres"}, []string(shop.Technologies))
	assert.Equal(t, []string{"https://cdn/x.png"}, []string(shop.ProjectImages))
	require.NotNil(t, shop.Category)
	assert.Equal(t, "Web", shop.Category.Name)

	web := int64(1)
	filtered := portfolio.Filter("", &web)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Shop", filtered[0].Title)
	assert.Empty(t, portfolio.Filter("app", &web))

	edit := portfolio.Prefill(shop)
	assert.Equal(t, NumericString("1"), edit.CategoryID)
	edit.CategoryID = "2"
	require.NoError(t, portfolio.Submit(ctx, edit))
	row, _ := portfolio.Projects.Find(shop.ID)
	assert.EqualValues(t, 2, row.CategoryID)
	assert.Equal(t, []string{"Go", "Postgres"}, []string(row.Technologies))
}

func TestPortfolioLoadIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	seed(t, b, model.TablePortfolioCategories, model.PortfolioCategory{Name: "Web"})
	seed(t, b, model.TablePortfolioProjects, model.PortfolioProject{Title: "Shop", CategoryID: 1})
	portfolio := NewPortfolio(b)

	b.Collection(model.TablePortfolioCategories).Fail(memory.OpSelect, errDown)
	require.ErrorIs(t, portfolio.Load(ctx), errDown)
	assert.Zero(t, portfolio.Projects.Len(), "projects fetched alongside a failed join are discarded")

	b.Collection(model.TablePortfolioCategories).Fail(memory.OpSelect, nil)
	require.NoError(t, portfolio.Load(ctx))
	assert.Equal(t, 1, portfolio.Projects.Len())
	assert.Equal(t, 1, portfolio.Categories.Len())
}

func TestServicesAndPackagesDropBlankFeatures(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	services := NewServices(b)
	packages := NewPackages(b)

	require.NoError(t, services.Submit(ctx, ServiceForm{Title: "Design", Features: []string{"UX", "", "UI"}, DisplayOrder: 2}))
	require.NoError(t, services.Submit(ctx, ServiceForm{Title: "Build", DisplayOrder: 1}))
	titles := lo.Map(services.Rows(), func(s model.Service, _ int) string { return s.Title })
	assert.Equal(t, []string{"Build", "Design"}, titles)
	assert.Equal(t, []string{"UX", "UI"}, []string(services.Rows()[1].Features))

	require.NoError(t, packages.Submit(ctx, PackageForm{Title: "Starter", Features: []string{" ", "Hosting"}, IsPopular: true}))
	require.NoError(t, packages.Submit(ctx, PackageForm{Title: "Pro", IsPopular: true}))
	assert.Len(t, lo.Filter(packages.Rows(), func(p model.Package, _ int) bool { return p.IsPopular }), 2)
	starter, ok := lo.Find(packages.Rows(), func(p model.Package) bool { return p.Title == "Starter" })
	require.True(t, ok)
	assert.Equal(t, []string{"Hosting"}, []string(starter.Features))
}

func TestTeamPrefillRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	team := NewTeam(b)
	require.NoError(t, team.Submit(ctx, TeamMemberForm{Name: "Ada", Specialties: "Go, Rust", DisplayOrder: 1}))
	require.NoError(t, team.Submit(ctx, TeamMemberForm{Name: "Grace", Designation: "Admiral", DisplayOrder: 0}))

	form := team.Prefill(team.Rows()[1])
	assert.Equal(t, "Ada", form.Name)
	form.Bio = "Wrote the first program."
	require.NoError(t, team.Submit(ctx, form))

	assert.Equal(t, 2, team.Len())
	ada, _ := team.Find(*form.ID)
	assert.Equal(t, "Wrote the first program.", ada.Bio)
	assert.Equal(t, "Go, Rust", ada.Specialties)
	assert.Len(t, team.Filter("rust"), 1)
}

func TestMessagesOpenAndReply(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	seed(t, b, model.TableMessages,
		model.Message{Name: "Ada", Email: "ada@example.com", Subject: "Quote", Message: "How much?"},
		model.Message{Name: "Grace", Email: "grace@example.com", Subject: "Hello", Message: "Hi", Read: true},
	)
	replier := &recordingReplier{}
	messages := NewMessages(b, replier)
	require.NoError(t, messages.List(ctx))
	assert.Equal(t, "Grace", messages.Rows()[0].Name, "newest first")
	assert.Equal(t, 1, messages.UnreadCount())

	msg, err := messages.Open(ctx, 1)
	require.NoError(t, err)
	assert.True(t, msg.Read)
	assert.Zero(t, messages.UnreadCount())

	// opening a read message must not write
	b.Collection(model.TableMessages).Fail(memory.OpUpdate, errDown)
	_, err = messages.Open(ctx, 1)
	require.NoError(t, err)
	b.Collection(model.TableMessages).Fail(memory.OpUpdate, nil)

	require.NoError(t, messages.SetRead(ctx, 1, false))
	unread, err := messages.FilterRead("", ReadUnread)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "Ada", unread[0].Name)

	require.NoError(t, messages.Reply(ctx, 1, "About 10k."))
	require.Len(t, replier.sent, 1)
	assert.Equal(t, reply.Request{
		Name:            "Ada",
		Email:           "ada@example.com",
		Subject:         "Quote",
		OriginalMessage: "How much?",
		ReplyBody:       "About 10k.",
	}, replier.sent[0])

	require.ErrorIs(t, messages.Reply(ctx, 42, "hi"), ErrNotFound)
	require.ErrorIs(t, NewMessages(b, nil).Reply(ctx, 1, "hi"), reply.ErrNotConfigured)
}

func TestContactSaveUpdatesSingleRow(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	contact := NewContact(b)
	require.NoError(t, contact.Load(ctx))
	assert.Equal(t, ContactForm{SocialLinks: map[string]string{}}, contact.Form())

	err := contact.Submit(ctx, ContactForm{SocialLinks: map[string]string{"myspace": "x"}})
	require.ErrorIs(t, err, ErrUnknownPlatform)

	require.NoError(t, contact.Submit(ctx, ContactForm{
		Email:       "hi@example.com",
		SocialLinks: map[string]string{"github": "https://github.com/acme", "twitter": ""},
	}))
	require.NoError(t, contact.Submit(ctx, ContactForm{
		Email:       "hello@example.com",
		Phone:       "+1 555",
		SocialLinks: map[string]string{"github": "https://github.com/acme"},
	}))

	assert.Equal(t, 1, b.Collection(model.TableContactInfo).Len())
	form := contact.Form()
	assert.Equal(t, "hello@example.com", form.Email)
	assert.Equal(t, map[string]string{"github": "https://github.com/acme"}, form.SocialLinks)

	b.Collection(model.TableContactInfo).Fail(memory.OpUpdate, errDown)
	require.ErrorIs(t, contact.Submit(ctx, ContactForm{Email: "x@example.com"}), errDown)
	assert.Equal(t, "hello@example.com", contact.Form().Email)
}

func TestHomeLoad(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	home := NewHome(b)

	require.NoError(t, home.SaveContent(ctx, HomeContentForm{HeroTitle: "We build", CTATitle: "Talk to us"}))
	require.NoError(t, home.SubmitImage(ctx, HeroImageForm{ImageURL: "b.png", DisplayOrder: 2}))
	require.NoError(t, home.SubmitImage(ctx, HeroImageForm{ImageURL: "a.png", DisplayOrder: 1}))
	require.NoError(t, home.SubmitStat(ctx, HomeStatForm{Number: "10", Label: "Years"}))
	require.NoError(t, home.SubmitPreview(ctx, ServicePreviewForm{Title: "Web"}))

	fresh := NewHome(b)
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, "We build", fresh.ContentForm().HeroTitle)
	urls := lo.Map(fresh.Images.Rows(), func(h model.HeroImage, _ int) string { return h.ImageURL })
	assert.Equal(t, []string{"a.png", "b.png"}, urls)
	assert.Equal(t, 1, fresh.Stats.Len())
	assert.Equal(t, 1, fresh.Previews.Len())

	b.Collection(model.TableHomeStats).Fail(memory.OpSelect, errDown)
	other := NewHome(b)
	require.ErrorIs(t, other.Load(ctx), errDown)
	_, ok := other.Content.Get()
	assert.False(t, ok)
	assert.Zero(t, other.Images.Len())
}

func TestDashboardCounts(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	seed(t, b, model.TableServices, model.Service{Title: "a"}, model.Service{Title: "b"})
	seed(t, b, model.TableMessages, model.Message{Name: "x"})
	seed(t, b, model.TableTeamMembers, model.TeamMember{Name: "y"})

	dash := NewDashboard(b)
	counts, err := dash.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{Services: 2, Messages: 1, TeamMembers: 1}, counts)

	seed(t, b, model.TableOrders, model.Order{Name: "z"})
	b.Collection(model.TableReviews).Fail(memory.OpCount, errDown)
	counts, err = dash.Load(ctx)
	require.ErrorIs(t, err, errDown)
	assert.Equal(t, Counts{Services: 2, Messages: 1, TeamMembers: 1}, counts)
	assert.Equal(t, counts, dash.Counts())
}

func TestSiteObservables(t *testing.T) {
	s := New(newBackend(), nil)
	defer s.Close()
	names := lo.Map(s.Observables(), func(o Observable, _ int) string { return o.Name() })
	assert.ElementsMatch(t, []string{
		model.TableServices, model.TableHomeContent, model.TableHeroImages, model.TableHomeStats,
		model.TableHomeServicesPreview, model.TablePortfolioProjects, model.TablePortfolioCategories,
		model.TableTeamMembers, model.TableReviews, model.TableReviewStats, model.TablePackages,
		model.TableOrders, model.TableMessages, model.TableContactInfo,
	}, names)
}

func TestSubmitReportsLandedWriteWhenRelistFails(t *testing.T) {
	ctx := context.Background()
	b := newBackend()
	services := NewServices(b)

	b.Collection(model.TableServices).Fail(memory.OpSelect, errDown)
	require.NoError(t, services.Submit(ctx, ServiceForm{Title: "Design"}))
	assert.Equal(t, 1, b.Collection(model.TableServices).Len(), "a landed write must not invite a retry")
	assert.Contains(t, services.Status().LastError, errDown.Error())

	b.Collection(model.TableServices).Fail(memory.OpSelect, nil)
	require.NoError(t, services.List(ctx))
	assert.Equal(t, 1, services.Len())
}
