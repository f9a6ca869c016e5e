package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/bootstrap"
	"github.com/yigit/iams/internal/config"
	"github.com/yigit/iams/internal/db"
	"github.com/yigit/iams/internal/pkg/logger"
	"github.com/yigit/iams/internal/seed"
)

type commandLine struct {
	out io.Writer

	// mockable
	loadConfig func() (*config.Config, error)
	openStore  func(ctx context.Context, cfg *config.Config) (repositories.Store, error)
	migrate    func(ctx context.Context, cfg *config.Config, dir string) error
}

func newCommandLine(out io.Writer) *commandLine {
	return &commandLine{
		out:        out,
		loadConfig: config.Load,
		openStore:  openStore,
		migrate:    migrate,
	}
}

func (c *commandLine) app() *cli.App {
	return &cli.App{
		Name:  "iams-admin",
		Usage: "operator tasks against the IAMS database",
		Before: func(*cli.Context) error {
			logger.Configure(logger.Config{Level: "warn"})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply pending SQL migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Usage: "migrations directory (defaults to database.migrations_dir)"},
				},
				Action: c.runMigrate,
			},
			{
				Name:   "seed",
				Usage:  "create missing roles and the configured admin",
				Action: c.runSeed,
			},
			{
				Name:  "create-user",
				Usage: "register an account with any role",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "role", Value: string(models.RoleAdmin)},
					&cli.StringFlag{Name: "password", Usage: "generated when empty"},
				},
				Action: c.runCreateUser,
			},
			{
				Name:  "reset-password",
				Usage: "set a new password for an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "generated when empty"},
				},
				Action: c.runResetPassword,
			},
		},
	}
}

func (c *commandLine) runMigrate(ctx *cli.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate needs the %s driver, got %s", config.DriverPostgres, cfg.Database.Driver)
	}
	dir := ctx.String("dir")
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}
	if err := c.migrate(ctx.Context, cfg, dir); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "migrations applied")
	return nil
}

func (c *commandLine) runSeed(ctx *cli.Context) error {
	return c.withStore(ctx, func(cfg *config.Config, repos *repositories.Repositories) error {
		admin := &seed.AdminConfig{
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
			FullName: cfg.Seed.AdminName,
		}
		if err := seed.CreateDefaultData(ctx.Context, repos, admin, logger.With("seed")); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "default data ready")
		return nil
	})
}

func (c *commandLine) runCreateUser(ctx *cli.Context) error {
	return c.withStore(ctx, func(_ *config.Config, repos *repositories.Repositories) error {
		if err := seed.EnsureRoles(ctx.Context, repos, logger.With("seed")); err != nil {
			return err
		}
		user, password, err := seed.CreateUser(ctx.Context, repos,
			ctx.String("email"), ctx.String("name"), models.RoleName(ctx.String("role")), ctx.String("password"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "created %s (%s) id=%s\n", user.Email, user.RoleName(), user.ID)
		if ctx.String("password") == "" {
			fmt.Fprintf(c.out, "password: %s\n", password)
		}
		return nil
	})
}

func (c *commandLine) runResetPassword(ctx *cli.Context) error {
	return c.withStore(ctx, func(_ *config.Config, repos *repositories.Repositories) error {
		password, err := seed.ResetPassword(ctx.Context, repos, ctx.String("email"), ctx.String("password"))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "password reset for %s\n", ctx.String("email"))
		if ctx.String("password") == "" {
			fmt.Fprintf(c.out, "password: %s\n", password)
		}
		return nil
	})
}

func (c *commandLine) withStore(ctx *cli.Context, fn func(*config.Config, *repositories.Repositories) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store.Repositories())
}

func openStore(ctx context.Context, cfg *config.Config) (repositories.Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return nil, fmt.Errorf("the %s driver keeps no data between runs", config.DriverMemory)
	}
	return bootstrap.SetupDatabase(ctx, cfg, logger.With("admin"))
}

func migrate(ctx context.Context, cfg *config.Config, dir string) error {
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	return bootstrap.RunMigrations(ctx, database, dir, logger.With("admin"))
}
