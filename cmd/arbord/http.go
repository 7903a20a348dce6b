// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"

	"github.com/google/go-cloud/health"
	"github.com/google/go-cloud/health/sqlhealth"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/itemserver"
	"github.com/treeline-io/go-arbor/postgres"
)

// HTTP serves the item REST API plus the operational endpoints.
type HTTP struct {
	store  arbor.Store
	defs   []arbor.Definition
	laddr  string
	logger *logrus.Logger
}

// Serve runs an HTTP server on the configured local address.  This
// serves connections forever.
func (h *HTTP) Serve() error {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())

	healthHandler := health.Handler{}
	if pg, ok := h.store.(*postgres.Store); ok {
		checker := sqlhealth.New(pg.DB())
		defer checker.Stop()
		healthHandler.Add(checker)
	}
	r.Handle("/healthz", &healthHandler)

	if err := itemserver.PopulateRouter(r, h.store, h.defs); err != nil {
		return err
	}

	n := negroni.New(negroni.NewRecovery())
	n.Use(requestCounter())
	if h.logger != nil {
		n.Use(requestLogger(h.logger))
	}
	n.UseHandler(r)
	return http.ListenAndServe(h.laddr, n)
}

// requestLogger logs one line per completed request.
func requestLogger(logger *logrus.Logger) negroni.Handler {
	return negroni.HandlerFunc(func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		next(w, r)
		res := w.(negroni.ResponseWriter)
		logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": res.Status(),
		}).Debug("Handled request")
	})
}
