// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/jito-foundation/jito-tip-router-sub002/api/doc"
	"github.com/jito-foundation/jito-tip-router-sub002/api/ncn"
	"github.com/jito-foundation/jito-tip-router-sub002/api/node"
	"github.com/jito-foundation/jito-tip-router-sub002/host"
	"github.com/jito-foundation/jito-tip-router-sub002/log"
	"github.com/jito-foundation/jito-tip-router-sub002/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger bool
	EnableMetrics   bool
	Version         string
}

func newRouter(bank *host.Bank, programID solana.PublicKey, opts Options) *mux.Router {
	router := mux.NewRouter()

	router.Path("/doc/tiprouter.yaml").
		Methods(http.MethodGet).
		HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			w.Write(doc.OpenAPI)
		})

	version := opts.Version
	if version == "" {
		version = doc.Version()
	}
	ncn.New(bank, programID).
		Mount(router, "/ncn")
	node.New(bank, node.Info{ProgramID: programID, Version: version}).
		Mount(router, "/node")
	return router
}

// New return api router
func New(bank *host.Bank, programID solana.PublicKey, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := newRouter(bank, programID, opts)

	if opts.EnableMetrics {
		if h := metrics.HTTPHandler(); h != nil {
			router.PathPrefix("/metrics").Handler(h)
		}
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP
}
