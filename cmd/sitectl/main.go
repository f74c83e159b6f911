// Command sitectl runs maintenance tasks against the console's data store.
package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"k8s.io/klog/v2"

	"github.com/raids-lab/siteadmin/cmd/siteadmin/helper"
	"github.com/raids-lab/siteadmin/dao/query"
	"github.com/raids-lab/siteadmin/pkg/config"
	"github.com/raids-lab/siteadmin/pkg/gateway"
	"github.com/raids-lab/siteadmin/pkg/gateway/orm"
	"github.com/raids-lab/siteadmin/pkg/site"
	"github.com/raids-lab/siteadmin/pkg/util"
)

type cli struct {
	Migrate    migrateCmd    `cmd:"" help:"Apply database migrations (orm driver)."`
	CreateUser createUserCmd `cmd:"" name:"create-user" help:"Create an operator account (orm driver)."`
	Seed       seedCmd       `cmd:"" help:"Load site content from a YAML fixture."`
	Counts     countsCmd     `cmd:"" help:"Print the dashboard counts."`
}

type migrateCmd struct {
	Rollback bool `help:"Undo the most recent migration instead."`
}

type createUserCmd struct {
	Email    string `required:"" help:"Operator email."`
	Password string `required:"" env:"SITEADMIN_NEW_PASSWORD" help:"Operator password."`
}

type seedCmd struct {
	File     string `arg:"" type:"existingfile" help:"Fixture file to load."`
	Email    string `help:"Sign in as this operator before writing."`
	Password string `env:"SITEADMIN_ADMIN_PASSWORD" help:"Password for --email."`
}

type countsCmd struct{}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Maintenance tasks for the site admin console."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func requireORM(cfg *config.Config) error {
	if cfg.Driver != config.DriverORM {
		return fmt.Errorf("sitectl: this command needs the orm driver, configured driver is %q", cfg.Driver)
	}
	return nil
}

func (cmd *migrateCmd) Run(_ context.Context) error {
	cfg := config.GetConfig()
	if err := requireORM(cfg); err != nil {
		return err
	}
	db := query.GetDB()
	if cmd.Rollback {
		if err := query.RollbackLast(db); err != nil {
			return fmt.Errorf("sitectl: rollback: %w", err)
		}
		klog.Info("rolled back the last migration")
		return nil
	}
	return query.Migrate(db)
}

func (cmd *createUserCmd) Run(ctx context.Context) error {
	cfg := config.GetConfig()
	if err := requireORM(cfg); err != nil {
		return err
	}
	tokens := util.NewTokenManager(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	user, err := orm.NewAuth(query.GetDB(), tokens).CreateUser(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("sitectl: create user: %w", err)
	}
	fmt.Fprintf(os.Stdout, "created operator %s (%s)\n", user.Email, user.ID)
	return nil
}

func openBackend(ctx context.Context) (gateway.Backend, error) {
	backend, _, err := helper.NewConfigInitializer().OpenBackend(ctx)
	return backend, err
}

func (cmd *seedCmd) Run(ctx context.Context) error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("sitectl: open fixture: %w", err)
	}
	defer f.Close()
	fx, err := readFixture(f)
	if err != nil {
		return err
	}

	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	if cmd.Email != "" {
		if _, err := backend.Auth().SignInWithPassword(ctx, cmd.Email, cmd.Password); err != nil {
			return fmt.Errorf("sitectl: sign in: %w", err)
		}
	}

	s := site.New(backend, nil)
	defer s.Close()
	written, err := fx.apply(ctx, s)
	for _, w := range written {
		fmt.Fprintf(os.Stdout, "%-22s %d\n", w.section, w.rows)
	}
	return err
}

func (cmd *countsCmd) Run(ctx context.Context) error {
	backend, err := openBackend(ctx)
	if err != nil {
		return err
	}
	s := site.New(backend, nil)
	defer s.Close()
	counts, err := s.Dashboard.Load(ctx)
	if err != nil {
		return fmt.Errorf("sitectl: counts: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "services\t%d\n", counts.Services)
	fmt.Fprintf(w, "projects\t%d\n", counts.Projects)
	fmt.Fprintf(w, "reviews\t%d\n", counts.Reviews)
	fmt.Fprintf(w, "orders\t%d\n", counts.Orders)
	fmt.Fprintf(w, "messages\t%d\n", counts.Messages)
	fmt.Fprintf(w, "team members\t%d\n", counts.TeamMembers)
	return w.Flush()
}
