package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/glamping-reservation/internal/booking"
	"github.com/iliyamo/glamping-reservation/internal/calendar"
	"github.com/iliyamo/glamping-reservation/internal/config"
	"github.com/iliyamo/glamping-reservation/internal/database"
	"github.com/iliyamo/glamping-reservation/internal/handler"
	"github.com/iliyamo/glamping-reservation/internal/middleware"
	"github.com/iliyamo/glamping-reservation/internal/notify"
	"github.com/iliyamo/glamping-reservation/internal/pricing"
	"github.com/iliyamo/glamping-reservation/internal/queue"
	"github.com/iliyamo/glamping-reservation/internal/repository"
	"github.com/iliyamo/glamping-reservation/internal/router"
	queue_publisher "github.com/iliyamo/glamping-reservation/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()
	bcfg := config.LoadBookingConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, db := openStores(ctx, cfg)
	if db != nil {
		defer db.Close()
	}
	if bcfg.SeedCabin {
		n, err := database.SeedCabins(ctx, stores.Cabins, bcfg.DefaultCabin())
		if err != nil {
			log.Fatalf("seed cabins: %v", err)
		}
		if n > 0 {
			log.Printf("seeded %d cabin(s)", n)
		}
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	payment := booking.PaymentDetails{
		DepositPercent: bcfg.DepositPercent,
		Holder:         bcfg.PaymentHolder,
		HolderID:       bcfg.PaymentHolderID,
		Accounts:       bcfg.PaymentAccounts,
		Nequi:          bcfg.Nequi,
		WhatsApp:       bcfg.WhatsApp,
	}
	engine := pricing.New(pricing.Config{
		ExtraGuestNightly: bcfg.ExtraGuestNightly,
		IncludedGuests:    bcfg.IncludedGuests,
		MaxGuests:         bcfg.MaxGuests,
	})

	opts := []booking.Option{
		booking.WithNotifier(newMailer(config.LoadMailConfig(), bcfg, payment)),
		booking.WithLogger(log.New(os.Stderr, "booking: ", log.LstdFlags)),
	}
	ccfg := config.LoadCalendarConfig()
	cal, err := calendar.New(ctx, calendar.Config{
		ServiceAccountEmail: ccfg.ServiceAccountEmail,
		PrivateKey:          ccfg.PrivateKey,
		CalendarID:          ccfg.CalendarID,
		Brand:               bcfg.Brand,
	})
	switch {
	case err != nil:
		log.Printf("calendar: %v; continuing without external calendar", err)
	case cal != nil:
		opts = append(opts, booking.WithCalendar(cal))
	}

	ecfg := config.LoadEventsConfig()
	if ecfg.Enabled {
		opts = append(opts, booking.WithEvents(queue_publisher.NewPublisher(ecfg.URL)))
		go func() {
			if err := queue.StartReservationConsumer(ctx, ecfg.URL, ecfg.LogPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("consumer: %v", err)
			}
		}()
	}

	manager := booking.NewManager(stores.Cabins, stores.Reservations, engine, booking.Config{
		Hold:          bcfg.Hold,
		NotifyTimeout: bcfg.NotifyTimeout,
		Payment:       payment,
	}, opts...)
	go booking.NewSweeper(manager, bcfg.SweepInterval).Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), echomw.Logger())

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterRoutes(e, &handler.Readiness{DB: db, Redis: rdb})
	public := router.PublicMiddleware{
		RateLimit:    limit,
		Cache:        middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		BookingLimit: middleware.NewTokenBucket(config.LoadBookingRateLimitConfig(), rdb),
	}
	router.RegisterPublic(e, handler.NewPublicHandler(manager, stores.Cabins), public)
	router.RegisterAdmin(e,
		handler.NewAuthHandler(cfg, stores.Admins, stores.Tokens),
		handler.NewAdminHandler(manager),
		cfg.JWTSecret,
		limit,
	)
	router.RegisterContent(e, handler.NewContentHandler(stores), cfg.JWTSecret, public, limit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, storage=%s)", addr, cfg.Env, cfg.StorageDriver)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openStores returns the repositories for the configured driver.  The
// *sql.DB is nil for the memory driver.
func openStores(ctx context.Context, cfg config.Config) (repository.Stores, *sql.DB) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Printf("using in-memory storage; data is lost on restart")
		return repository.NewMemoryStore().Stores(), nil
	}
	db, err := database.Open(ctx, database.Options{
		User:            cfg.DBUser,
		Pass:            cfg.DBPass,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return repository.NewMySQLStores(db), db
}

// newMailer routes guest and owner email through the configured providers.
// Unconfigured providers fall back to the log provider so a reservation is
// never lost for want of credentials.
func newMailer(mc config.MailConfig, bcfg config.BookingConfig, payment booking.PaymentDetails) *notify.Mailer {
	logger := log.New(os.Stderr, "mail: ", log.LstdFlags)
	fallback := notify.LogProvider{Logger: logger}

	def := provider(mc.Provider, mc)
	if def == nil {
		log.Printf("mail: provider %q not configured; emails go to the log", mc.Provider)
		def = fallback
	}
	r := &notify.DomainRouter{Default: def, Fallback: fallback, Logger: logger}
	if mc.MicrosoftProvider != "" {
		r.Microsoft = provider(mc.MicrosoftProvider, mc)
	}
	return notify.NewMailer(r, notify.MailerConfig{
		Brand:      bcfg.Brand,
		Location:   bcfg.Location,
		OwnerEmail: mc.OwnerEmail,
		AdminURL:   mc.AdminURL,
		Hold:       bcfg.Hold,
		Payment:    payment,
	})
}

// provider builds the named provider, or returns nil when it lacks
// credentials.  The typed-nil checks keep a nil pointer out of the interface.
func provider(name string, mc config.MailConfig) notify.Provider {
	switch name {
	case "sendgrid":
		if p := notify.NewSendGridProvider(mc.SendGridKey, mc.FromAddress, mc.FromName); p != nil {
			return p
		}
	case "smtp":
		if p := notify.NewSMTPProvider(mc.SMTPHost, mc.SMTPPort, mc.SMTPUser, mc.SMTPPass, mc.FromAddress, mc.FromName); p != nil {
			return p
		}
	case "log":
		return notify.LogProvider{Logger: log.New(os.Stderr, "mail: ", log.LstdFlags)}
	}
	return nil
}
