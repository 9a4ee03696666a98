package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/jwtauth"

	"derisk/app/auth"
	"derisk/app/config"
	"derisk/app/history"
	"derisk/app/notifier"
	"derisk/app/server"
	"derisk/app/storage/database"
	"derisk/app/watcher"
	"derisk/pkg/log"
	"derisk/pkg/web"
	webware "derisk/pkg/web/middleware"
)

const (
	maxRequestsAllowed    = 10000
	serverShutdownTimeout = 30 * time.Second
	healthRequestTimeout  = 30 * time.Second
)

func main() {
	cfg, err := config.ParseServer()
	if err != nil {
		panic(err)
	}

	zlog := log.ConfigureLogger(cfg.Logging)
	defer func() {
		_ = zlog.Sync() // flush the logger
	}()

	// connect to the database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = db.Close()
	}()

	authSvc := &auth.Manager{
		JWTAuth: jwtauth.New("HS256", []byte(cfg.Secrets.Token), nil),
	}
	notifierSvc := notifier.NewManager()
	historySvc := &history.Manager{DB: db}
	watcherSvc := &watcher.Manager{
		DB:       db,
		Auth:     authSvc,
		Notifier: notifierSvc,
		Health: &watcher.HTTPHealthSource{
			Endpoint: cfg.Watcher.HealthEndpoint,
			HttpClient: &http.Client{
				Timeout: healthRequestTimeout,
			},
		},
		Config:    cfg.Watcher,
		APISecret: cfg.Secrets.API,
	}

	router := newRouter()
	rest := server.Rest{
		Router:    router,
		History:   historySvc,
		Watcher:   watcherSvc,
		Notifier:  notifierSvc,
		Auth:      authSvc,
		APISecret: cfg.Secrets.API,
	}
	rest.Route() // handle http requests

	// watch health ratios until the program exits
	watcherCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()
	go watchAlerts(watcherCtx, watcherSvc, cfg.Watcher.CheckInterval)

	// start notifier an http server and remember to shut it down
	srv := &http.Server{
		Addr:    cfg.RestAddr,
		Handler: router,
	}
	go notifierSvc.Start()
	go web.Start(srv)
	defer web.Shutdown(srv, serverShutdownTimeout)

	// wait for the program exit
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	<-exit
}

func newRouter() chi.Router {
	router := chi.NewRouter()

	// add middleware
	router.Use(
		middleware.Throttle(maxRequestsAllowed),
		middleware.RealIP,
		webware.ZapLogger,
		webware.Recoverer,
	)

	return router
}

func watchAlerts(ctx context.Context, svc watcher.Service, interval time.Duration) {
	log.Info("starting liquidation watcher")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.CheckAlerts(ctx); err != nil {
				log.Error("failed to check alerts: ", err)
			}
		}
	}
}
