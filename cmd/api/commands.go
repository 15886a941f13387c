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

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	httpadp "loan-management-backend/internal/adapter/http"
	"loan-management-backend/internal/adapter/repository/gormrepo"
	"loan-management-backend/internal/config"
	"loan-management-backend/internal/domain/user"
	"loan-management-backend/internal/infrastructure/cache"
	infradb "loan-management-backend/internal/infrastructure/db"
	"loan-management-backend/internal/infrastructure/logging"
	"loan-management-backend/internal/infrastructure/token"
	loanuc "loan-management-backend/internal/usecase/loan"
	paymentuc "loan-management-backend/internal/usecase/payment"
	statsuc "loan-management-backend/internal/usecase/stats"
	useruc "loan-management-backend/internal/usecase/user"
)

const shutdownTimeout = 10 * time.Second

// app is what every subcommand starts from: validated config, a logger and
// a migrated database.
type app struct {
	cfg *config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var cfgFile string

	root := &cobra.Command{
		Use:           "loanapi",
		Short:         "Loan management HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v, cfgFile, false)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
	flags.String("port", "", "HTTP port (APP_PORT)")
	flags.String("db-driver", "", "database driver: mysql, postgres or sqlite (DB_DRIVER)")
	flags.String("db-dsn", "", "database connection string (DB_DSN)")
	flags.String("sqlite-path", "", "sqlite database file (SQLITE_PATH)")
	flags.String("log-level", "", "log level (LOG_LEVEL)")
	for key, flag := range map[string]string{
		"app_port":    "port",
		"db_driver":   "db-driver",
		"db_dsn":      "db-dsn",
		"sqlite_path": "sqlite-path",
		"log_level":   "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	var seedOnStart bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), v, cfgFile, seedOnStart)
		},
	}
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "create or reset the default accounts before serving")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(v, cfgFile)
			if err != nil {
				return err
			}
			defer a.close()
			a.log.Info("schema migrated")
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create or reset the default admin and user accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(v, cfgFile)
			if err != nil {
				return err
			}
			defer a.close()
			return a.seed(cmd.Context())
		},
	}

	root.AddCommand(serveCmd, migrateCmd, seedCmd)
	return root
}

func bootstrap(v *viper.Viper, cfgFile string) (*app, error) {
	cfg, err := config.Read(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == config.DefaultJWTSecret {
		log.Warn("JWT_SECRET is the built-in default; set it outside development")
	}

	db, err := infradb.OpenGorm(cfg.DBDriver, cfg.DSN(), infradb.LogLevel(cfg.GormLogLevel), log)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	a := &app{cfg: cfg, log: log, db: db}
	if err := infradb.Migrate(db); err != nil {
		a.close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *app) tokens() *token.Manager { return token.NewManager(a.cfg.JWTSecret, a.cfg.TokenTTL()) }

func (a *app) accounts() *useruc.Usecase {
	return useruc.NewUsecase(gormrepo.NewUserRepository(a.db), a.tokens(), a.log)
}

func (a *app) seed(ctx context.Context) error {
	return a.accounts().Seed(ctx, []useruc.SeedAccount{
		{
			Name:     a.cfg.SeedAdminName,
			Email:    a.cfg.SeedAdminEmail,
			Password: a.cfg.SeedAdminPassword,
			Role:     user.RoleAdmin,
		},
		{
			Name:     a.cfg.SeedUserName,
			Email:    a.cfg.SeedUserEmail,
			Password: a.cfg.SeedUserPassword,
			Phone:    "1234567890",
			Role:     user.RoleUser,
		},
	})
}

func runServe(ctx context.Context, v *viper.Viper, cfgFile string, seed bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(v, cfgFile)
	if err != nil {
		return err
	}
	defer a.close()

	if seed {
		if err := a.seed(ctx); err != nil {
			return err
		}
	}

	tokens := a.tokens()
	tx := gormrepo.NewGormUoW(a.db)
	deps := httpadp.Deps{
		Log:            a.log,
		Verifier:       tokens,
		IdempotencyTTL: a.cfg.IdempotencyTTL(),
		Accounts:       useruc.NewUsecase(gormrepo.NewUserRepository(a.db), tokens, a.log),
		Loans:          loanuc.NewUsecase(gormrepo.NewLoanRepository(a.db), tx, a.log),
		Payments:       paymentuc.NewUsecase(gormrepo.NewPaymentRepository(a.db), tx, a.log),
		Stats:          statsuc.NewUsecase(tx),
	}

	rdb, err := cache.OpenRedis(ctx, cache.Options{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		deps.Redis = rdb
	} else {
		a.log.Warn("REDIS_ADDR is empty; idempotency keys are ignored")
	}

	e := httpadp.NewServer(deps)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + a.cfg.AppPort
		a.log.WithField("addr", addr).Info("listening")
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
