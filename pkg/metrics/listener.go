// Package metrics exposes the process's Prometheus registry over HTTP for
// scraping during long import runs.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Listener struct {
	srv *http.Server
	log logrus.FieldLogger
}

// NewListener builds the scrape endpoint but does not start it.
func NewListener(addr, path string, log logrus.FieldLogger) *Listener {
	if path == "" {
		path = "/debug/prometheus"
	}
	r := mux.NewRouter()
	r.Handle(path, promhttp.Handler()).Methods(http.MethodGet)
	return &Listener{
		srv: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Start serves the endpoint in the background until Stop is called.
func (l *Listener) Start() {
	go func() {
		if err := l.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.log.WithError(err).Warn("metrics listener stopped")
		}
	}()
}

func (l *Listener) Stop(ctx context.Context) error {
	return l.srv.Shutdown(ctx)
}
