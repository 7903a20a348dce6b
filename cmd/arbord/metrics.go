// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/negroni"
)

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "treeline",
		Subsystem: "arbor",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests to the item API",
	},
	[]string{
		"method",
		"status",
	},
)

func init() {
	prometheus.MustRegister(requestCount)
}

// requestCounter counts every request by method and response status.
func requestCounter() negroni.Handler {
	return negroni.HandlerFunc(func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		next(w, r)
		res := w.(negroni.ResponseWriter)
		requestCount.With(prometheus.Labels{
			"method": r.Method,
			"status": strconv.Itoa(res.Status()),
		}).Inc()
	})
}
