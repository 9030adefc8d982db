// Command blogd runs the JSON API over the access-control pipeline: a small
// blog backend with token login, owner/admin guarded mutations and public
// reads.
package main

import (
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	sqldata "github.com/goliatone/go-gatekit/data/sql"
	"github.com/goliatone/go-gatekit/httpapi"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type Config struct {
	Addr       string        `env:"BLOGD_ADDR"         envDefault:":8080"`
	DSN        string        `env:"BLOGD_DSN"          envDefault:"file:blogd.db?_pragma=foreign_keys(1)"`
	SigningKey string        `env:"BLOGD_SIGNING_KEY,required"`
	TokenTTL   time.Duration `env:"BLOGD_TOKEN_TTL"    envDefault:"72h"`
	Issuer     string        `env:"BLOGD_TOKEN_ISSUER" envDefault:"blogd"`
	Debug      bool          `env:"BLOGD_DEBUG"        envDefault:"false"`
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("blogd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DSN)
	if err != nil {
		lgr.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer sqldb.Close()

	if err := sqldata.RunMigrations(sqldb); err != nil {
		lgr.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	bdb := bun.NewDB(sqldb, sqlitedialect.New())

	repo := gatekit.NewRepositoryManager(bdb)
	repo.MustValidate()

	store := gatekit.NewPrincipalStore(repo.Principals())
	verifier := gatekit.NewCredentialVerifier(store).
		WithLogger(lgr.GetLogger("credentials"))

	tokens, err := gatekit.NewTokenService([]byte(cfg.SigningKey), cfg.TokenTTL, cfg.Issuer, lgr.GetLogger("tokens"))
	if err != nil {
		lgr.Error("failed to build token service", "error", err)
		os.Exit(1)
	}

	api := httpapi.New(repo, verifier, tokens, store,
		httpapi.WithLogger(lgr.GetLogger("http")),
		httpapi.WithDebug(cfg.Debug),
	)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "blogd",
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	api.RegisterRoutes(srv.Router())

	lgr.Info("listening", "addr", cfg.Addr)
	srv.Serve(cfg.Addr)

	WaitExitSignal()
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
