// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/lockvault/api/events"
	"github.com/vechain/lockvault/api/middleware"
	"github.com/vechain/lockvault/api/subscriptions"
	"github.com/vechain/lockvault/api/vaults"
	"github.com/vechain/lockvault/eventdb"
	"github.com/vechain/lockvault/log"
	"github.com/vechain/lockvault/vault"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PageLimit            uint64
	AllowWrites          bool
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
}

// New return api router and a func to close open subscriptions. mu guards v against other
// users sharing it.
func New(v *vault.Vault, mu sync.Locker, eventDB *eventdb.EventDB, opts Options) (http.Handler, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	vaults.New(v, mu, opts.PageLimit, opts.AllowWrites).
		Mount(router, "/vault")
	closeFn := func() {}
	if eventDB != nil {
		events.New(eventDB, opts.PageLimit).
			Mount(router, "/events")
		subs := subscriptions.New(eventDB, origins, opts.PageLimit)
		subs.Mount(router, "/subscriptions")
		closeFn = subs.Close
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))
	}

	methods := []string{http.MethodGet, http.MethodOptions}
	if opts.AllowWrites {
		methods = append(methods, http.MethodPost)
	}
	handler := handlers.CompressHandler(router)
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods(methods),
	)(handler), closeFn
}
