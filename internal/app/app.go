package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/crystal-levels/internal/config"
	"github.com/vancomm/crystal-levels/internal/handlers"
	"github.com/vancomm/crystal-levels/internal/level"
	"github.com/vancomm/crystal-levels/internal/middleware"
)

type Store interface {
	handlers.AuthorStore
	handlers.LevelStore
}

type App struct {
	log      *logrus.Logger
	router   *http.ServeMux
	store    Store
	cookies  *config.Cookies
	ws       *config.WebSocket
	gen      *level.Generator
	origins  []string
	basePath string
}

type Options struct {
	Store     Store
	Cookies   *config.Cookies
	WebSocket *config.WebSocket
	Generator *level.Generator
	// Origins allowed by CORS; empty allows all.
	Origins  []string
	BasePath string
}

func New(log *logrus.Logger, opts Options) *App {
	a := &App{
		log:      log,
		router:   http.NewServeMux(),
		store:    opts.Store,
		cookies:  opts.Cookies,
		ws:       opts.WebSocket,
		gen:      opts.Generator,
		origins:  opts.Origins,
		basePath: strings.TrimSuffix(opts.BasePath, "/"),
	}
	a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if a.basePath != "" {
		h = http.StripPrefix(a.basePath, h)
	}
	return middleware.Wrap(
		h,
		middleware.Logging(a.log),
		middleware.Cors(a.origins...),
		middleware.Auth(a.log, a.cookies),
	)
}

const shutdownTimeout = 15 * time.Second

// Serve listens on addr until ctx is done, then shuts the server down.
func (a *App) Serve(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:        addr,
		Handler:     a.Handler(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	a.log.WithField("addr", addr).Info("level server listening")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
