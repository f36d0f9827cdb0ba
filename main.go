// This is the main entry point of the ems application.
// It's responsible for loading configuration, opening the stores, building services and
// the HTTP router, and starting the HTTP server with graceful shutdown. The same binary
// also carries admin commands (migrate, user create) and a client for the API.
//
// @title EMS API
// @version 1.0
// @description Employee and department management API.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/config"
	"github.com/user/ems-go/db"
	"github.com/user/ems-go/logging"
	"github.com/user/ems-go/server"
	"github.com/user/ems-go/users"
)

func main() {
	// A missing .env file is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	if err := newApp().Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("command failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ems",
		Usage: "employee and department management service",
		Flags: clientFlags(),
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "apply pending migrations before serving", EnvVars: []string{"AUTO_MIGRATE"}},
					&cli.StringFlag{Name: "seed-admin-email", Usage: "create this admin at startup if missing", EnvVars: []string{"SEED_ADMIN_EMAIL"}},
					&cli.StringFlag{Name: "seed-admin-password", EnvVars: []string{"SEED_ADMIN_PASSWORD"}},
				},
				Action: runServe,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations",
				Action: runMigrate,
			},
			{
				Name:  "user",
				Usage: "manage user accounts",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a user (use it to seed the first admin)",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true},
							&cli.StringFlag{Name: "email", Required: true},
							&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"EMS_NEW_USER_PASSWORD"}},
							&cli.StringFlag{Name: "role", Value: string(users.RoleEmployee), Usage: "admin or employee"},
							&cli.StringFlag{Name: "employee-id", Usage: "optional employee profile id"},
						},
						Action: runUserCreate,
					},
				},
			},
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			dashboardCommand(),
			departmentsCommand(),
		},
	}
}

// loadServerConfig loads the configuration and the logger for server-side commands.
func loadServerConfig() (*config.AppConfig, *logrus.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.Log, os.Stderr)
	// Packages that log without a request context use the standard logger.
	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)
	return cfg, logger, nil
}

func runServe(c *cli.Context) error {
	cfg, logger, err := loadServerConfig()
	if err != nil {
		return err
	}

	if c.Bool("migrate") && cfg.StoreDriver == config.StoreDriverPostgres {
		if err := db.RunMigrations(cfg.Database); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	svc, closeStores, err := server.NewServices(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	if email := c.String("seed-admin-email"); email != "" {
		if err := seedAdmin(c.Context, svc.Users, email, c.String("seed-admin-password")); err != nil {
			return err
		}
		logger.WithField("email", email).Info("admin account ready")
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(cfg.Server, logger, svc),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "store": cfg.StoreDriver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}

// seedAdmin creates an admin account unless one with the same email already exists.
func seedAdmin(ctx context.Context, svc *users.Service, email, password string) error {
	_, err := svc.Create(ctx, users.CreateUserInput{Name: "Administrator", Email: email, Password: password, Role: users.RoleAdmin})
	if err != nil && !apperror.IsConflictError(err) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg, logger, err := loadServerConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver != config.StoreDriverPostgres {
		return cli.Exit("migrations only apply to STORE_DRIVER=postgres", 1)
	}
	if err := db.RunMigrations(cfg.Database); err != nil {
		return err
	}
	logger.Info("database migrations applied")
	return nil
}

func runUserCreate(c *cli.Context) error {
	cfg, logger, err := loadServerConfig()
	if err != nil {
		return err
	}
	if cfg.StoreDriver == config.StoreDriverMemory {
		return cli.Exit("user create needs a persistent store; set STORE_DRIVER=postgres", 1)
	}

	role, err := users.ParseRole(c.String("role"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	svc, closeStores, err := server.NewServices(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	u, err := svc.Users.Create(c.Context, users.CreateUserInput{
		Name:       c.String("name"),
		Email:      c.String("email"),
		Password:   c.String("password"),
		Role:       role,
		EmployeeID: c.String("employee-id"),
	})
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email, "role": u.Role}).Info("user created")
	return nil
}
