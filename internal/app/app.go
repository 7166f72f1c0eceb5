// Package app wires every dependency of the API server and runs it.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/petfolk/pawmart/internal/auth"
	"github.com/petfolk/pawmart/internal/cache"
	"github.com/petfolk/pawmart/internal/domain/appointment"
	"github.com/petfolk/pawmart/internal/domain/blog"
	"github.com/petfolk/pawmart/internal/domain/cart"
	"github.com/petfolk/pawmart/internal/domain/chat"
	"github.com/petfolk/pawmart/internal/domain/order"
	"github.com/petfolk/pawmart/internal/domain/payment"
	"github.com/petfolk/pawmart/internal/domain/pet"
	"github.com/petfolk/pawmart/internal/domain/product"
	"github.com/petfolk/pawmart/internal/domain/subscription"
	"github.com/petfolk/pawmart/internal/domain/user"
	"github.com/petfolk/pawmart/internal/domain/voucher"
	"github.com/petfolk/pawmart/internal/events"
	"github.com/petfolk/pawmart/internal/handler"
	"github.com/petfolk/pawmart/internal/storage/postgres"
	"github.com/petfolk/pawmart/pkg/health"
	"github.com/petfolk/pawmart/pkg/httpmiddleware"
	"github.com/petfolk/pawmart/pkg/metrics"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Cart cache: Redis when configured, noop otherwise.
	var cartCache cart.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		cartCache = cache.NewCartCache(rdb)
		healthSvc.AddReadinessCheck("redis", 5*time.Second, func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	userRepo := postgres.NewUserRepository(pool)
	petRepo := postgres.NewPetRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	blogRepo := postgres.NewBlogRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)

	// Event recording: outbox + Kafka publisher when brokers are set. The
	// order store writes the placement event inside its own transaction.
	var (
		orderSink   postgres.EventSink
		orderEvents order.Events       = events.NoopRecorder{}
		apptEvents  appointment.Events = events.NoopRecorder{}
	)
	g, gctx := errgroup.WithContext(ctx)
	if len(cfg.KafkaBrokers) > 0 {
		outbox := events.NewOutbox(pool)
		recorder := events.NewRecorder(outbox, lg.Named("events"))
		orderSink = recorder
		orderEvents = recorder
		apptEvents = recorder

		publisher := events.NewPublisher(outbox, cfg.KafkaBrokers, time.Second, lg.Named("publisher"))
		g.Go(func() error {
			return publisher.Run(gctx)
		})
	}
	orderStore := postgres.NewOrderStore(pool, orderSink)

	// Domain services.
	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	userService := user.NewService(userRepo)
	petService := pet.NewService(petRepo)
	appointmentService := appointment.NewService(appointmentRepo, apptEvents)
	productService := product.NewService(productRepo)
	cartService := cart.NewService(cartRepo, productRepo, cartCache, lg.Named("cart"))
	voucherValidator := voucher.NewRepoValidator(voucherRepo)
	orderService := order.NewService(productRepo, voucherValidator, orderStore, orderEvents)
	paymentService := payment.NewService(payment.Config{
		GatewayURL: cfg.Payment.GatewayURL,
		ReturnURL:  cfg.Payment.ReturnURL,
		Provider:   cfg.Payment.Provider,
		Secret:     []byte(cfg.Payment.Secret),
	}, paymentRepo, orderStore)
	subscriptionService := subscription.NewService(subscriptionRepo)
	blogService := blog.NewService(blogRepo)
	chatService := chat.NewService(chatRepo)

	// HTTP handlers.
	h := handler.New(handler.Config{
		Issuer:        issuer,
		Users:         userService,
		Pets:          petService,
		Appointments:  appointmentService,
		Products:      productService,
		Carts:         cartService,
		Orders:        orderService,
		Vouchers:      voucherRepo,
		Payments:      paymentService,
		Subscriptions: subscriptionService,
		Blog:          blogService,
		Chat:          chatService,
	})

	// Mux: health and metrics endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/api/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(
			otelhttp.NewHandler(mux, "pawmart-api",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return g.Wait()
}
