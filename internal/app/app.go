// Package app wires the userkeeper components together for the boundary
// binary: logger, registry, notifier, session service, plus startup
// bootstrap (admin account and batch import).
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/modestry/userkeeper/internal/auth"
	"github.com/modestry/userkeeper/internal/common"
	"github.com/modestry/userkeeper/internal/config"
	"github.com/modestry/userkeeper/internal/logging"
	"github.com/modestry/userkeeper/internal/notify"
	"github.com/modestry/userkeeper/internal/registry"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	registry    *registry.Registry
	authService *auth.Service
}

func NewApp(c *config.Config) *App {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	reg := registry.New(notify.NewSlogSender(logger), logger)
	as := auth.NewService(reg, c)

	return &App{config: c, logger: logger, registry: reg, authService: as}
}

// Registry exposes the account registry to callers embedding the app.
func (app *App) Registry() *registry.Registry { return app.registry }

// Auth exposes the session service to callers embedding the app.
func (app *App) Auth() *auth.Service { return app.authService }

// Run performs the startup sequence: register the bootstrap admin if
// configured, then import the users file if configured.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "starting userkeeper")

	if err := app.bootstrapAdmin(ctx); err != nil {
		return err
	}
	if err := app.importUsersFile(ctx); err != nil {
		return err
	}

	app.logger.Info(ctx, "registry ready", "users", app.registry.Count())
	return nil
}

// bootstrapAdmin registers the configured admin account. An already
// registered admin is fine; the operation is idempotent across restarts.
func (app *App) bootstrapAdmin(ctx context.Context) error {
	email := strings.TrimSpace(app.config.AdminEmail)
	if email == "" || strings.TrimSpace(app.config.AdminPassword) == "" {
		return nil
	}

	_, err := app.registry.RegisterUser(ctx, app.config.AdminFullName, email, app.config.AdminPassword)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	app.logger.Info(ctx, "bootstrap admin registered", "email", strings.ToLower(email))
	return nil
}

// importUsersFile feeds the configured users file into the registry, one
// serialized record per line. Blank lines and '#' comments are skipped.
func (app *App) importUsersFile(ctx context.Context) error {
	if app.config.UsersFile == "" {
		return nil
	}

	f, err := os.Open(app.config.UsersFile)
	if err != nil {
		return fmt.Errorf("open users file: %w", err)
	}
	defer f.Close()

	var records []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		records = append(records, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read users file: %w", err)
	}

	imported, err := app.registry.ImportUsers(ctx, records)
	if err != nil {
		return fmt.Errorf("import users file (after %d records): %w", len(imported), err)
	}
	return nil
}
