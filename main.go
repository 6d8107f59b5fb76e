package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"erms/auth"
	"erms/config"
	"erms/database"
	"erms/events"
	"erms/logging"
	"erms/models"
	"erms/server"
	"erms/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "erms",
	Short: "Engineering resource management API",
	Long:  `erms tracks engineers, projects and the assignments between them, and serves them over a JSON API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("schema up to date")
		return nil
	},
}

var seedManagerCmd = &cobra.Command{
	Use:   "seed-manager",
	Short: "Create a manager account if none exists with the given email",
	Long: `Create a manager account. Nothing happens when the email is already registered.

Example:
  erms seed-manager --email boss@example.com --name "Boss" --password s3cret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		password, _ := cmd.Flags().GetString("password")
		department, _ := cmd.Flags().GetString("department")

		cfg, log, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		st := store.New(db)
		authSvc := newAuthService(cfg, st)
		hash, err := authSvc.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		created, err := database.SeedManager(cmd.Context(), db, log, models.User{
			Email:        auth.NormalizeEmail(email),
			Name:         name,
			Skills:       []string{},
			Department:   department,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("seed manager: %w", err)
		}
		if created {
			fmt.Printf("Manager %s created.\n", email)
		} else {
			fmt.Printf("Manager %s already exists.\n", email)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("ERMS_CONFIG"), "Path to a TOML config file")

	seedManagerCmd.Flags().String("email", "", "Manager email (login name)")
	seedManagerCmd.Flags().String("name", "", "Manager display name")
	seedManagerCmd.Flags().String("password", "", "Initial password")
	seedManagerCmd.Flags().String("department", "", "Department")
	_ = seedManagerCmd.MarkFlagRequired("email")
	_ = seedManagerCmd.MarkFlagRequired("name")
	_ = seedManagerCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedManagerCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and opens the database.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.Open(cfg.DatabaseURL, cfg.LogDevelopment)
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, log, db, nil
}

func newAuthService(cfg *config.Config, st *store.Store) *auth.Service {
	return auth.NewService(st.Users, auth.Options{
		Secret:     cfg.JWTSecret,
		Expiration: cfg.JWTExpiration,
		BcryptCost: cfg.BcryptCost,
	})
}

func runServe(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := database.Migrate(db); err != nil {
		log.Error("migration failed", zap.Error(err))
		return fmt.Errorf("migrate: %w", err)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		nc, err := events.NewNATS(cfg.NATSURL)
		if err != nil {
			log.Warn("nats unavailable, domain events disabled", zap.String("url", cfg.NATSURL), zap.Error(err))
		} else {
			publisher = nc
			log.Info("publishing domain events", zap.String("url", cfg.NATSURL))
		}
	}
	defer publisher.Close()

	st := store.New(db)
	handler := server.NewRouter(server.Deps{
		DB:          db,
		Store:       st,
		Auth:        newAuthService(cfg, st),
		Events:      publisher,
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	return server.Run(ctx, ":"+cfg.ServerPort, handler, log)
}
