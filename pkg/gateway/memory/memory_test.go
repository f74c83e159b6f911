package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raids-lab/siteadmin/dao/model"
	"github.com/raids-lab/siteadmin/pkg/gateway"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newBackend() *Backend {
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	return New(WithClock(c.now))
}

func TestInsertAssignsGeneratedColumns(t *testing.T) {
	b := newBackend()
	members := gateway.From[model.TeamMember](b, model.TableTeamMembers)

	m := &model.TeamMember{Name: "Ada", DisplayOrder: 2}
	require.NoError(t, members.Insert(context.Background(), m))
	assert.EqualValues(t, 1, m.ID)
	assert.False(t, m.CreatedAt.IsZero())

	second := &model.TeamMember{Name: "Grace", DisplayOrder: 1}
	require.NoError(t, members.Insert(context.Background(), second))
	assert.EqualValues(t, 2, second.ID)
	assert.True(t, second.CreatedAt.After(m.CreatedAt))
}

func TestSelectOrdering(t *testing.T) {
	b := newBackend()
	ctx := context.Background()
	reviews := gateway.From[model.Review](b, model.TableReviews)
	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, reviews.Insert(ctx, &model.Review{Name: name, Rating: 5}))
	}

	t.Run("created_at desc", func(t *testing.T) {
		rows, err := reviews.Select(ctx, gateway.Desc("created_at"))
		require.NoError(t, err)
		names := make([]string, 0, len(rows))
		for _, r := range rows {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"third", "second", "first"}, names)
	})

	t.Run("empty collection is an empty slice", func(t *testing.T) {
		rows, err := gateway.From[model.Package](b, model.TablePackages).Select(ctx, gateway.Desc("created_at"))
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("display_order asc is stable", func(t *testing.T) {
		stats := gateway.From[model.HomeStat](b, model.TableHomeStats)
		require.NoError(t, stats.Insert(ctx, &model.HomeStat{Label: "b", DisplayOrder: 2}))
		require.NoError(t, stats.Insert(ctx, &model.HomeStat{Label: "a1", DisplayOrder: 1}))
		require.NoError(t, stats.Insert(ctx, &model.HomeStat{Label: "a2", DisplayOrder: 1}))
		rows, err := stats.Select(ctx, gateway.Asc("display_order"))
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "a1", rows[0].Label)
		assert.Equal(t, "a2", rows[1].Label)
		assert.Equal(t, "b", rows[2].Label)
	})
}

func TestUpdateDeleteCount(t *testing.T) {
	b := newBackend()
	ctx := context.Background()
	orders := gateway.From[model.Order](b, model.TableOrders)
	o := &model.Order{OrderID: "ORD-1", Name: "Lin", Status: model.OrderPending}
	require.NoError(t, orders.Insert(ctx, o))

	require.NoError(t, orders.Update(ctx, o.ID, gateway.Patch{"status": model.OrderCompleted}))
	rows, err := orders.Select(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.OrderCompleted, rows[0].Status)
	assert.Equal(t, "ORD-1", rows[0].OrderID)

	// unknown ids are a no-op, as with a filtered update at the store
	require.NoError(t, orders.Update(ctx, 99, gateway.Patch{"status": "cancelled"}))
	require.NoError(t, orders.Delete(ctx, 99))

	n, err := orders.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, orders.Delete(ctx, o.ID))
	n, err = orders.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSingleAndUpdatedAt(t *testing.T) {
	b := newBackend()
	ctx := context.Background()
	contact := gateway.From[model.ContactInfo](b, model.TableContactInfo)

	_, err := contact.Single(ctx)
	assert.ErrorIs(t, err, gateway.ErrNoRows)

	row := &model.ContactInfo{Email: "hi@example.com"}
	require.NoError(t, contact.Insert(ctx, row))
	before := row.UpdatedAt

	require.NoError(t, contact.Update(ctx, row.ID, gateway.Patch{"phone": "+1 555"}))
	got, err := contact.Single(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi@example.com", got.Email)
	assert.Equal(t, "+1 555", got.Phone)
	assert.True(t, got.UpdatedAt.After(before))
}

func TestFaultInjection(t *testing.T) {
	b := newBackend()
	ctx := context.Background()
	boom := errors.New("boom")
	b.Collection(model.TableMessages).Fail(OpSelect, boom)

	_, err := gateway.From[model.Message](b, model.TableMessages).Select(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "select messages")

	b.Collection(model.TableMessages).Fail(OpSelect, nil)
	_, err = gateway.From[model.Message](b, model.TableMessages).Select(ctx)
	assert.NoError(t, err)
}

func TestCancelledContext(t *testing.T) {
	b := newBackend()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Table(model.TableServices).Count(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAuth(t *testing.T) {
	b := newBackend()
	ctx := context.Background()
	auth := b.Auth()

	_, err := b.Users().AddUser("Admin@Example.com", "s3cret")
	require.NoError(t, err)

	var events []gateway.AuthEvent
	unsubscribe := auth.OnAuthStateChange(func(c gateway.AuthChange) { events = append(events, c.Event) })

	user, err := auth.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = auth.SignInWithPassword(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, gateway.ErrInvalidCredentials)

	session, err := auth.SignInWithPassword(ctx, "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "admin@example.com", session.User.Email)

	user, err = auth.GetUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, session.User.ID, user.ID)

	require.NoError(t, auth.SignOut(ctx))
	user, err = auth.GetUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	unsubscribe()
	unsubscribe()
	_, err = auth.SignInWithPassword(ctx, "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, []gateway.AuthEvent{gateway.EventSignedIn, gateway.EventSignedOut}, events)
}

func TestDefaultStorage(t *testing.T) {
	b := newBackend()
	storage := b.Storage()
	require.NoError(t, storage.Upload(context.Background(), "public/1-a.png", strings.NewReader("x"), "image/png"))
	assert.Equal(t, DefaultPublicBase+"/images/public/1-a.png", storage.PublicURL("public/1-a.png"))
}
