package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/cogstack/cogstack-api/config"
	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/preview"
	"github.com/cogstack/cogstack-api/pkg/logger"
)

// Terminal rendition of the tech-stack explorer and contact form.
// Uses the same CONTACT_* settings as the API server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the terminal UI
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "cogstack-preview",
		FileOnly:    true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transport := contact.NewTransport(cfg.Contact, logger.With(zap.String("component", "contact_transport")))
	controller := contact.NewController(transport,
		contact.WithLogger(logger.With(zap.String("component", "contact_controller"))))

	program := tea.NewProgram(preview.New(ctx, controller), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("Preview exited with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "preview: %v\n", err)
		os.Exit(1)
	}
}
