// Package cli implements the auractl operator commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"auratrack_backend/internal/app/config"
	"auratrack_backend/internal/app/di"
	authentity "auratrack_backend/internal/feature/auth/domain/entity"
	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
	"auratrack_backend/internal/platform/logger"
)

// ExportUsecase renders filtered entries as CSV.
type ExportUsecase interface {
	Export(ctx context.Context, f entity.Filter) (*usecase.Export, error)
	ExportWithLocale(ctx context.Context, f entity.Filter, locale usecase.Locale) (*usecase.Export, error)
}

// InsightsUsecase summarizes a window of entries.
type InsightsUsecase interface {
	Summarize(ctx context.Context, owner string, from, to time.Time) (*usecase.Insights, error)
}

// UserRegistrar creates accounts.
type UserRegistrar interface {
	Signup(ctx context.Context, username, password string) (*authentity.User, error)
}

// Backend is what the commands run against.
type Backend struct {
	Exporter ExportUsecase
	Insights InsightsUsecase
	Users    UserRegistrar
	Close    func(ctx context.Context)
}

// BackendFactory connects a Backend. It runs once per command invocation.
type BackendFactory func(ctx context.Context) (*Backend, error)

type RootOptions struct {
	factory BackendFactory
	backend *Backend
}

// NewRootCmd returns auractl wired to the configured storage.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithBackend(defaultBackend)
}

// NewRootCmdWithBackend returns auractl using factory for its dependencies.
func NewRootCmdWithBackend(factory BackendFactory) *cobra.Command {
	opts := &RootOptions{factory: factory}

	cmd := &cobra.Command{
		Use:           "auractl",
		Short:         "Operator tools for the migraine diary backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newExportCmd(opts),
		newInsightsCmd(opts),
		newUserCmd(opts),
	)
	return cmd
}

// connect builds the backend lazily so that help and flag errors never touch storage.
func (o *RootOptions) connect(cmd *cobra.Command) (*Backend, error) {
	if o.backend != nil {
		return o.backend, nil
	}
	b, err := o.factory(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("initialize backend: %w", err)
	}
	o.backend = b
	return b, nil
}

// release closes the backend if connect opened one.
func (o *RootOptions) release(cmd *cobra.Command) {
	if o.backend != nil && o.backend.Close != nil {
		o.backend.Close(context.WithoutCancel(cmd.Context()))
	}
	o.backend = nil
}

func defaultBackend(ctx context.Context) (*Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr so that CSV on stdout stays clean.
	l, err := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(l)

	app, err := di.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Exporter: app.Exporter,
		Insights: app.Insights,
		Users:    app.Auth,
		Close:    app.Close,
	}, nil
}
