package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"quotekeeper/internal/apperr"
	"quotekeeper/internal/auth"
	"quotekeeper/internal/cache"
	"quotekeeper/internal/collection"
	"quotekeeper/internal/config"
	"quotekeeper/internal/db"
	"quotekeeper/internal/kindle"
	"quotekeeper/internal/middleware"
	"quotekeeper/internal/quote"
	"quotekeeper/internal/ratelimit"
	"quotekeeper/internal/store"
	"quotekeeper/internal/telemetry"
	"quotekeeper/internal/whitelist"
	"quotekeeper/internal/ws"
)

func main() {
	doMigrate := flag.Bool("migrate", false, "run migrations and exit")
	flag.Parse()

	cfg := config.Load()
	sqlxDB := db.MustConnect(cfg.DBDSN)
	rdb := cache.MustConnect(cfg.RedisAddr, cfg.RedisDB)

	tlog := telemetry.Init(telemetry.FromEnv(config.GetEnv))
	tlog.Info().Str("port", cfg.AppPort).Msg("booting quotekeeper")

	if *doMigrate {
		db.MustMigrate(sqlxDB)
		log.Println("migrations done")
		return
	}

	st := store.New(sqlxDB)
	authReg := auth.NewRegistry(cfg, st, rdb)

	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.RequestLog())
	app.Use(middleware.SecureHeaders())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/api/v1/auth/google/login", authReg.GoogleLogin)
	app.Get("/api/v1/auth/google/callback", authReg.GoogleCallback)
	app.Get("/api/v1/me", middleware.OptionalSession(authReg), authReg.Me)
	app.Post("/api/v1/auth/logout", authReg.Logout)
	app.Get("/api/v1/auth/check-email", authReg.CheckEmailAccess)

	protected := app.Group("/api/v1", middleware.AuthSession(authReg))

	wh := whitelist.NewHandler(st.Whitelist)
	admin := protected.Group("/whitelist", middleware.RequireAdmin())
	admin.Get("/", wh.GetAll)
	admin.Post("/", wh.Add)
	admin.Delete("/", wh.Remove)

	ch := collection.NewHandler(st.Collections)
	protected.Get("/collections", ch.List)
	protected.Post("/collections", ch.Create)
	protected.Get("/collections/:id", ch.Get)
	protected.Patch("/collections/:id", ch.Update)
	protected.Delete("/collections/:id", ch.Delete)

	qh := quote.NewHandler(st.Quotes, st.Collections, quote.NewService(st.Quotes))
	protected.Get("/collections/:id/quotes", qh.ListByCollection)
	protected.Get("/quotes", qh.List)
	protected.Post("/quotes", qh.Create)
	protected.Get("/quotes/random", qh.GetRandom)
	protected.Get("/quotes/:id", qh.Get)
	protected.Patch("/quotes/:id", qh.Update)
	protected.Delete("/quotes/:id", qh.Delete)
	protected.Post("/quotes/:id/read", qh.MarkAsRead)

	kh := kindle.NewHandler(st.Collections, kindle.NewService(st.Quotes, st.SyncLogs))
	syncLimiter := ratelimit.New(cfg.SyncRPS, cfg.SyncBurst)
	protected.Post("/kindle/sync", middleware.SyncLimiter(syncLimiter), kh.Sync)
	protected.Get("/kindle/last-sync", kh.GetLastSync)

	app.Get("/ws", middleware.AuthSession(authReg), websocket.New(ws.HandleWS))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(":" + cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}
