// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves read-only HTTP queries over the node head state.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/parastake/parastake/api/accounts"
	"github.com/parastake/parastake/api/candidates"
	"github.com/parastake/parastake/api/eras"
	"github.com/parastake/parastake/api/growth"
	"github.com/parastake/parastake/api/payouts"
	"github.com/parastake/parastake/api/subscriptions"
	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/metrics"
	"github.com/parastake/parastake/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableMetrics   bool
	EnableReqLogger bool
}

// New return api router and a function closing open subscriptions
func New(n *node.Node, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	eras.New(n).
		Mount(router)
	candidates.New(n).
		Mount(router, "/candidates")
	payouts.New(n).
		Mount(router, "/payouts")
	growth.New(n).
		Mount(router, "/growth")
	accounts.New(n).
		Mount(router, "/accounts")
	subs := subscriptions.New(n, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLogger(handler)
	}
	return handler.ServeHTTP, subs.Close
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("API Request",
			"DurationMs", time.Since(start).Milliseconds(),
			"URI", r.URL.String(),
			"Method", r.Method,
		)
	})
}
