package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Leiracamera/clarityPMDD/internal/api"
	"github.com/Leiracamera/clarityPMDD/internal/cli"
	"github.com/Leiracamera/clarityPMDD/internal/config"
	"github.com/Leiracamera/clarityPMDD/internal/db"
	"github.com/Leiracamera/clarityPMDD/internal/logger"
	"github.com/Leiracamera/clarityPMDD/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	if len(os.Args) > 1 {
		if err := runCommand(cfg, log, os.Args[1:]); err != nil {
			log.Error("command failed", "command", os.Args[1], "error", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func runCommand(cfg *config.Config, log *slog.Logger, args []string) error {
	switch args[0] {
	case "reset-password":
		return runResetPassword(cfg, log, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// runResetPassword handles `clarity reset-password [--prompt] <email>`.
func runResetPassword(cfg *config.Config, log *slog.Logger, args []string) error {
	flags := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	prompt := flags.Bool("prompt", false, "read the new password from the terminal instead of generating one")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: clarity reset-password [--prompt] <email>")
	}

	options := cli.ResetOptions{Email: flags.Arg(0)}
	if *prompt {
		password, err := cli.PromptPassword(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
		options.Password = password
	}

	database, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	return cli.RunResetPasswordCommand(context.Background(), db.NewUserRepository(database), options, os.Stdout)
}

func serve(cfg *config.Config, log *slog.Logger) error {
	location := loadLocation(cfg.TimeZone, log)
	time.Local = location

	accessMode, err := services.ParseAccessMode(cfg.AccessMode)
	if err != nil {
		return err
	}

	database, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}

	repositories := db.NewRepositories(database)
	options := api.Options{
		Entries:      services.NewEntryService(repositories.Entries, location),
		Auth:         services.NewAuthService(repositories.Users),
		Policy:       services.NewAccessPolicy(accessMode),
		SecretKey:    cfg.SecretKey,
		CookieSecure: cfg.CookieSecure,
		Location:     location,
		Logger:       log,
	}
	if cfg.GoogleEnabled() {
		options.Google = services.NewGoogleIdentity(services.GoogleIdentityConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		})
	}

	handler, err := api.NewHandler(options)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "Clarity",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(compress.New())
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("clarity listening",
		"addr", "0.0.0.0:"+cfg.Port,
		"db_driver", cfg.DBDriver,
		"access_mode", string(accessMode),
		"tz", location.String(),
		"google_login", options.Google != nil,
	)
	return app.Listen(":" + cfg.Port)
}

func openDatabase(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	database, err := db.Open(db.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.PostgresDSN(),
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, nil
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "clarity_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

func loadLocation(name string, log *slog.Logger) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Warn("invalid TZ, falling back to UTC", "tz", name)
		return time.UTC
	}
	return location
}
