// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/lockvault/api"
	"github.com/vechain/lockvault/metrics"
)

func serveAction(ctx *cli.Context, e *env) error {
	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}
	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))

	// the process owns the state db while serving, so API writes are the only writes
	handler, closeSubs := api.New(e.vault, &sync.Mutex{}, e.events, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PageLimit:            ctx.Uint64(apiPageLimitFlag.Name),
		AllowWrites:          ctx.Bool(apiAllowWritesFlag.Name),
		EnableMetrics:        enableMetrics,
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})

	servers := []*http.Server{newServer(handler)}
	addrs := []string{ctx.String(apiAddrFlag.Name)}
	if enableMetrics {
		router := mux.NewRouter()
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		servers = append(servers, newServer(handlers.CompressHandler(router)))
		addrs = append(addrs, ctx.String(metricsAddrFlag.Name))
	}

	listeners := make([]net.Listener, 0, len(addrs))
	for _, addr := range addrs {
		listener, err := net.Listen("tcp", addr)
		if err != nil {
			for _, l := range listeners {
				l.Close()
			}
			return errors.Wrapf(err, "listen [%v]", addr)
		}
		listeners = append(listeners, listener)
		logger.Info("listening", "url", "http://"+listener.Addr().String())
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)
	for i, srv := range servers {
		listener := listeners[i]
		g.Go(func() error {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("stopping servers...")
		closeSubs()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("server shutdown", "err", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func newServer(handler http.Handler) *http.Server {
	return &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
}
