// Package containers starts the Postgres and NATS servers the integration
// tests run against.
package containers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcnats "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage = "postgres:16-alpine"
	natsImage     = "nats:2.10-alpine"

	markingDB       = "marking"
	markingUser     = "marking"
	markingPassword = "marking"

	startupTimeout = 45 * time.Second
)

// Postgres starts an empty marking database and returns its DSN.
func Postgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	c, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(markingDB),
		postgres.WithUsername(markingUser),
		postgres.WithPassword(markingPassword),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
					markingUser, markingPassword, host, port.Port(), markingDB)
			}).WithStartupTimeout(startupTimeout),
		),
	)
	if err != nil {
		if c != nil {
			terminate(ctx, c)
		}
		return nil, "", fmt.Errorf("containers.Postgres: %w", err)
	}

	dsn, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		terminate(ctx, c)
		return nil, "", fmt.Errorf("containers.Postgres: connection string: %w", err)
	}

	slog.Info("Postgres container ready", "image", postgresImage)
	return c, dsn, nil
}

// NATS starts a JetStream enabled server and returns its URL.
func NATS(ctx context.Context) (*tcnats.NATSContainer, string, error) {
	c, err := tcnats.Run(ctx, natsImage,
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Server is ready"),
				wait.ForListeningPort("4222/tcp"),
			).WithDeadline(startupTimeout),
		),
	)
	if err != nil {
		if c != nil {
			terminate(ctx, c)
		}
		return nil, "", fmt.Errorf("containers.NATS: %w", err)
	}

	url, err := c.ConnectionString(ctx)
	if err != nil {
		terminate(ctx, c)
		return nil, "", fmt.Errorf("containers.NATS: connection string: %w", err)
	}

	slog.Info("NATS container ready", "image", natsImage, "url", url)
	return c, url, nil
}

func terminate(ctx context.Context, c testcontainers.Container) {
	if err := c.Terminate(ctx); err != nil {
		slog.Warn("Failed to terminate container", "error", err)
	}
}
