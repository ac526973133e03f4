//
// Article API
// ===========
// An HTTP CRUD service for articles stored in PostgreSQL.
//
// Pass -routes to print the generated router docs instead of serving:
// `go run . -routes`
//
// Boot the server:
// ----------------
// $ go run main.go
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/
// {"message":"connecting to a relational database"}
//
// $ curl -X POST -d '{"title":"Hi","body":"first post"}' http://localhost:3333/posts
// {"id":1,"title":"Hi","body":"first post"}
//
// $ curl http://localhost:3333/articles
// [{"id":1,"title":"Hi","body":"first post"}]
//
// $ curl -X PUT -d '{"title":"Hi","body":"edited"}' http://localhost:3333/posts/1
// {"id":1,"title":"Hi","body":"edited"}
//
// $ curl -X DELETE http://localhost:3333/posts/1
// {"success":true}
//
// $ curl http://localhost:3333/articles/1
// {"detail":"The article does not exist"}
//
// Metrics and health live on the diagnostics address:
// $ curl http://localhost:9999/metrics
//
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/docgen"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SergeyParamoshkin/articles/internal/articleservice"
	"github.com/SergeyParamoshkin/articles/internal/config"
	"github.com/SergeyParamoshkin/articles/internal/database"
	"github.com/SergeyParamoshkin/articles/internal/logger"
	"github.com/SergeyParamoshkin/articles/internal/metrics"
	"github.com/SergeyParamoshkin/articles/internal/server"
)

const ServiceName = "articles"

const readHeaderTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}

		return err
	}

	m, err := metrics.New(ServiceName)
	if err != nil {
		return err
	}

	// Passing -routes to the program will generate docs for the router
	// definition without touching the database.
	if cfg.Routes {
		fmt.Println(docgen.MarkdownRoutesDoc(server.NewRouter(nil, zap.NewNop().Sugar(), m), docgen.MarkdownOpts{
			ProjectPath: "github.com/SergeyParamoshkin/articles",
			Intro:       "Article API generated docs.",
		}))

		return nil
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck // flushes buffer, if any
	zap.ReplaceGlobals(zl)
	sugar := zl.Sugar()

	if err := database.RunMigrations(cfg.Database, sugar); err != nil {
		return err
	}
	if cfg.MigrateOnly {
		return nil
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	err = m.ObserveArticleCount(func(ctx context.Context) (int64, error) {
		return articleservice.CountArticles(ctx, db)
	})
	if err != nil {
		return err
	}

	api := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.NewRouter(db, sugar, m),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	diag := &http.Server{
		Addr:              cfg.DiagAddr,
		Handler:           server.NewDiagRouter(db, sugar, m),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return serve(api, "api", sugar) })
	g.Go(func() error { return serve(diag, "diag", sugar) })
	g.Go(func() error {
		<-gctx.Done()
		sugar.Infow("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return errors.Join(
			api.Shutdown(shutdownCtx),
			diag.Shutdown(shutdownCtx),
			m.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

func serve(srv *http.Server, name string, log *zap.SugaredLogger) error {
	log.Infow("listening", "server", name, "addr", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}

	return nil
}
