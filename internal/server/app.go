// Package server initializes and runs the application server. It wires the
// database, migrations, the token codec, the OTP store, the mailer, and the
// HTTP endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/validoio/valido/internal/logging"
	"github.com/validoio/valido/internal/server/auth"
	"github.com/validoio/valido/internal/server/config"
	"github.com/validoio/valido/internal/server/mailer"
	"github.com/validoio/valido/internal/server/otp"
	"github.com/validoio/valido/internal/server/repositories/repomanager"
	"github.com/validoio/valido/internal/server/rest"
	"github.com/validoio/valido/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	codec       *auth.Codec
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := auth.NewCodec([]byte(cfg.SecretKey),
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	otpStore := otp.NewStore(cfg.OtpValidityDuration, cfg.OtpResendCooldown)

	mail, err := newMailer(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	us := services.NewUserService(db, rm, codec, otpStore, mail, logger, cfg)

	return &App{config: cfg, logger: logger, db: db, userService: us, codec: codec}, nil
}

func newMailer(ctx context.Context, cfg *config.Config, logger logging.Logger) (mailer.Mailer, error) {
	if cfg.MailerMode == config.MailerSES {
		return mailer.NewSESMailer(ctx, cfg)
	}
	return mailer.NewLogMailer(logger), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.codec)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
