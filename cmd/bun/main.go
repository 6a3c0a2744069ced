package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/Black-And-White-Club/competition-marking/config"
	"github.com/Black-And-White-Club/competition-marking/db/bundb"
	"github.com/Black-And-White-Club/competition-marking/db/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	var db *bun.DB

	moduleFlag := &cli.StringFlag{
		Name:    "module",
		Aliases: []string{"m"},
		Usage:   "limit the command to one module",
	}

	// selected resolves --module against the ordered migrator list.
	selected := func(c *cli.Context) ([]migrations.ModuleMigrator, error) {
		all := migrations.Migrators(db)
		name := c.String("module")
		if name == "" {
			return all, nil
		}
		i := slices.IndexFunc(all, func(m migrations.ModuleMigrator) bool { return m.Module == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown module %q", name)
		}
		return all[i : i+1], nil
	}

	return &cli.App{
		Name:  "bun",
		Usage: "manage the competition-marking schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			db, err = bundb.Open(c.Context, cfg.Postgres.DSN)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			return nil
		},
		After: func(*cli.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "database migrations",
				Subcommands: []*cli.Command{
					{
						Name:  "init",
						Usage: "create migration tables",
						Flags: []cli.Flag{moduleFlag},
						Action: func(c *cli.Context) error {
							ms, err := selected(c)
							if err != nil {
								return err
							}
							for _, m := range ms {
								if err := m.Migrator.Init(c.Context); err != nil {
									return fmt.Errorf("init %s: %w", m.Module, err)
								}
								fmt.Fprintf(c.App.Writer, "%s: migration tables ready\n", m.Module)
							}
							return nil
						},
					},
					{
						Name:  "migrate",
						Usage: "apply pending migrations",
						Flags: []cli.Flag{moduleFlag},
						Action: func(c *cli.Context) error {
							ms, err := selected(c)
							if err != nil {
								return err
							}
							for _, m := range ms {
								group, err := m.Migrator.Migrate(c.Context)
								if err != nil {
									return fmt.Errorf("migrate %s: %w", m.Module, err)
								}
								report(c.App.Writer, m.Module, "migrated to", group)
							}
							return nil
						},
					},
					{
						Name:  "rollback",
						Usage: "roll back the last migration group, last module first",
						Flags: []cli.Flag{moduleFlag},
						Action: func(c *cli.Context) error {
							ms, err := selected(c)
							if err != nil {
								return err
							}
							for _, m := range slices.Backward(ms) {
								group, err := m.Migrator.Rollback(c.Context)
								if err != nil {
									return fmt.Errorf("rollback %s: %w", m.Module, err)
								}
								report(c.App.Writer, m.Module, "rolled back", group)
							}
							return nil
						},
					},
					{
						Name:      "create_go",
						Usage:     "create a Go migration",
						ArgsUsage: "<module> <name...>",
						Action: func(c *cli.Context) error {
							if c.NArg() < 2 {
								return fmt.Errorf("usage: create_go <module> <name...>")
							}
							i := slices.IndexFunc(migrations.Migrators(db), func(m migrations.ModuleMigrator) bool {
								return m.Module == c.Args().First()
							})
							if i < 0 {
								return fmt.Errorf("unknown module %q", c.Args().First())
							}
							m := migrations.Migrators(db)[i]

							mf, err := m.Migrator.CreateGoMigration(c.Context, strings.Join(c.Args().Tail(), "_"))
							if err != nil {
								return fmt.Errorf("create_go %s: %w", m.Module, err)
							}
							fmt.Fprintf(c.App.Writer, "%s: created %s (%s)\n", m.Module, mf.Name, mf.Path)
							return nil
						},
					},
					{
						Name:  "status",
						Usage: "print migration status",
						Flags: []cli.Flag{moduleFlag},
						Action: func(c *cli.Context) error {
							ms, err := selected(c)
							if err != nil {
								return err
							}
							for _, m := range ms {
								status, err := m.Migrator.MigrationsWithStatus(c.Context)
								if err != nil {
									return fmt.Errorf("status %s: %w", m.Module, err)
								}
								fmt.Fprintf(c.App.Writer, "%s\n  applied:   %s\n  unapplied: %s\n",
									m.Module, status.Applied(), status.Unapplied())
							}
							return nil
						},
					},
				},
			},
		},
	}
}

func report(w io.Writer, module, verb string, group *migrate.MigrationGroup) {
	if group.IsZero() {
		fmt.Fprintf(w, "%s: nothing to do\n", module)
		return
	}
	fmt.Fprintf(w, "%s: %s %s\n", module, verb, group)
}
