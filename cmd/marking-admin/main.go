package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Black-And-White-Club/competition-marking/app/eventbus"
	"github.com/Black-And-White-Club/competition-marking/app/modules/assignment"
	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/competition-marking/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/competition-marking/app/modules/criterion"
	"github.com/Black-And-White-Club/competition-marking/app/modules/round"
	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	"github.com/Black-And-White-Club/competition-marking/app/modules/team"
	"github.com/Black-And-White-Club/competition-marking/app/modules/user"
	"github.com/Black-And-White-Club/competition-marking/app/shared/observability"
	"github.com/Black-And-White-Club/competition-marking/config"
	"github.com/Black-And-White-Club/competition-marking/db/bundb"
	"github.com/Black-And-White-Club/competition-marking/internal/seed"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "marking-admin",
		Usage: "administrative tasks for the competition marking service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.BoolFlag{Name: "verbose", Usage: "log service operations"},
		},
		Commands: []*cli.Command{
			seedCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create an admin, judges, teams, criteria and an open round",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "teams", Value: 10, Usage: "number of teams (at most 15)"},
			&cli.IntFlag{Name: "judges", Value: 6},
			&cli.IntFlag{Name: "criteria", Value: 4},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed, defaults to the current time"},
			&cli.BoolFlag{Name: "assign", Value: true, Usage: "assign judges to teams after seeding"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if c.Bool("verbose") {
				logger = observability.NewLogger(os.Stderr, "development", "info")
			}
			return runSeed(c.Context, cfg, logger, c)
		},
	}
}

func runSeed(ctx context.Context, cfg *config.Config, logger *slog.Logger, c *cli.Context) error {
	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	gen := seed.NewGenerator()
	if c.IsSet("seed") {
		gen = seed.NewGenerator(c.Uint64("seed"))
	}
	fmt.Printf("Seeding with seed %d\n", gen.Seed())

	metrics := observability.NewNoop()
	users := user.NewModule(ctx, db, logger, metrics, nil)
	teams := team.NewModule(ctx, db, logger, metrics, nil)
	criteria := criterion.NewModule(ctx, db, logger, metrics, nil)
	rounds := round.NewModule(ctx, db, logger, metrics, criteria.Repo, nil)
	assignments := assignment.NewModule(ctx, db, logger, metrics, assignment.Deps{
		Teams:            teams.Repo,
		Users:            users.Repo,
		Rounds:           rounds.Repo,
		Publisher:        eventbus.NoopPublisher{},
		MaxJudgesPerTeam: cfg.Marking.MaxJudgesPerTeam,
	}, nil)

	admin, err := users.Service.CreateUser(ctx, gen.Admin())
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	fmt.Printf("Admin %s <%s>\n", admin.ID, admin.Email)

	for _, p := range gen.Judges(c.Int("judges")) {
		j, err := users.Service.CreateUser(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to create judge %s: %w", p.Email, err)
		}
		fmt.Printf("Judge %s %s\n", j.ID, j.Name)
	}

	for _, p := range gen.Teams(c.Int("teams")) {
		t, err := teams.Service.CreateTeam(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to create team %d: %w", p.Number, err)
		}
		fmt.Printf("Team %2d %s\n", t.Number, t.Name)
	}

	criterionIDs := []string{}
	for _, d := range gen.Criteria(c.Int("criteria")) {
		cr, err := criteria.Service.CreateCriterion(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to create criterion %s: %w", d.Name, err)
		}
		criterionIDs = append(criterionIDs, cr.ID)
	}

	start := time.Now().UTC().Truncate(time.Hour)
	r, err := rounds.Service.CreateRound(ctx, admin.ID, gen.Round(start, 8*time.Hour, criterionIDs))
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	on := true
	if _, err := rounds.Service.SetState(ctx, r.ID, rounddomain.StateChange{IsActive: &on, IsOpen: &on}); err != nil {
		return fmt.Errorf("failed to open round: %w", err)
	}
	fmt.Printf("Round %s %q is open\n", r.ID, r.Name)

	if c.Bool("assign") {
		report, err := assignments.Service.AssignJudges(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("failed to assign judges: %w", err)
		}
		fmt.Printf("Assigned judges to %d teams, workload spread %d\n", report.Stats.TeamsWithJudges, report.Stats.Spread)
	}
	return nil
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user-id", Required: true},
			&cli.StringFlag{Name: "name", Value: "Developer"},
			&cli.StringFlag{Name: "role", Value: string(authdomain.RoleAdmin), Usage: "admin or judge"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime, defaults to jwt.default_ttl"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			role := authdomain.Role(c.String("role"))
			if !role.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}
			ttl := c.Duration("ttl")
			if ttl == 0 {
				ttl = cfg.JWT.DefaultTTL
			}

			provider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)
			tok, err := provider.GenerateToken(&authdomain.Claims{
				UserID: c.String("user-id"),
				Name:   c.String("name"),
				Role:   role,
			}, ttl)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(c.App.Writer, tok)
			return nil
		},
	}
}
