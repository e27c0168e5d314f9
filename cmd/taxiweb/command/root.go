// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the taxiweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself while the other
// sub-commands manage the database, the admins, the bearer tokens,
// and the roster exports.
//
//	./taxiweb [-c /path/of/config.yaml] [--addr :8080]  # start web server
//	./taxiweb db init [-c /path/of/config.yaml]
//	./taxiweb users add-admin --uid U --email E --first F --last L
//	./taxiweb token issue UID [--ttl 12h]
//	./taxiweb shifts export --from 2024-05-01 --to 2024-05-31 -o roster.xlsx
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/momeni/taxiweb/pkg/adapter/config"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/authn"
	"github.com/momeni/taxiweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/taxiweb/pkg/core/log"
	"github.com/momeni/taxiweb/pkg/core/repo"
	"github.com/momeni/taxiweb/pkg/core/usecase/appuc"
	"github.com/momeni/taxiweb/pkg/core/usecase/driversuc"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	cfgPath    string
	listenAddr string
)

// shutdownTimeout bounds the graceful shutdown of the web server.
const shutdownTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "taxiweb",
	Short: "Taxi shifts scheduling web service",
	Long: `Taxi shifts scheduling web service which lets admins manage
taxis and drivers and lets drivers book their shifts, while ensuring
that no taxi and no driver is booked for two overlapping shifts.
Sending SIGHUP reloads the use case settings from the config file.`,
	RunE: startWebServer,
	Args: cobra.NoArgs,
}

// env holds the components which are shared by the sub-commands.
type env struct {
	cfg  *config.Config
	pool repo.Pool
	app  *appuc.UseCase
}

func (e *env) Close() {
	e.pool.Close()
	e.cfg.Close()
}

// setup loads the configuration file, installs the logger, connects
// to the store (and cache), and instantiates the use cases.
func setup(ctx context.Context) (*env, *slog.Logger, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	l, err := c.SetupLogger(os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logger: %w", err)
	}
	log.Info(ctx, "configs are loaded", slog.Any("config", c))
	if err = c.OpenCache(ctx); err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}
	p, repos, err := c.ConnectionPool(ctx)
	if err != nil {
		c.Close()
		return nil, nil, fmt.Errorf("creating DB pool: %w", err)
	}
	app, err := appuc.New(ctx, c, p, repos)
	if err != nil {
		p.Close()
		c.Close()
		return nil, nil, fmt.Errorf("creating application use case: %w", err)
	}
	return &env{cfg: c, pool: p, app: app}, l, nil
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	e, l, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	if e.cfg.Database.Driver == "memory" {
		if err = seedAdmin(ctx, cmd, e); err != nil {
			return err
		}
	}

	engine := e.cfg.NewEngine(l)
	routes.Register(engine, e.app, e.cfg.JWTSecret())
	srv := &http.Server{Addr: listenAddr, Handler: engine}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "web server is listening", slog.String("addr", listenAddr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(
			context.Background(), shutdownTimeout,
		)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	g.Go(func() error {
		return reloadOnHangup(gctx, e)
	})
	if err = g.Wait(); err != nil {
		return fmt.Errorf("running web server: %w", err)
	}
	log.Info(ctx, "web server is stopped")
	return nil
}

// reloadOnHangup reloads the configuration file whenever a SIGHUP
// is received and replaces the use cases with the new settings.
// The database connection settings are not reloaded.
func reloadOnHangup(ctx context.Context, e *env) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
		}
		c, err := config.Load(cfgPath)
		if err == nil {
			err = c.OpenCache(ctx)
		}
		if err == nil {
			err = e.app.Reload(ctx, c)
		}
		if err != nil {
			log.Error(ctx, "reloading configs failed", log.Err("err", err))
			if c != nil {
				c.Close()
			}
			continue
		}
		old := e.cfg
		e.cfg = c
		old.Close()
		log.Info(ctx, "configs are reloaded", slog.Any("config", c))
	}
}

// seedAdmin creates a development admin profile in the memory store
// and prints a bearer token for it, since a fresh memory store has no
// profile which could authenticate.
func seedAdmin(ctx context.Context, cmd *cobra.Command, e *env) error {
	_, err := e.app.DriversUseCase().CreateAdmin(ctx, driversuc.NewProfile{
		UID:       "admin",
		Email:     "admin@localhost",
		FirstName: "Development",
		LastName:  "Admin",
	})
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	tok, err := authn.IssueToken(e.cfg.JWTSecret(), "admin", e.cfg.TokenTTL())
	if err != nil {
		return fmt.Errorf("issuing admin token: %w", err)
	}
	log.Warn(ctx, "memory store is seeded with a development admin")
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.Flags().StringVar(
		&listenAddr, "addr", ":8080", "listening address of the web server",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
