package handler

import (
	"context"
	"net/http"

	"github.com/wadjakorntonsri/booking-bridge/pkg/app"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
	"github.com/wadjakorntonsri/booking-bridge/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log, _ := logger.New(cfg.Log)

	// Note: On Vercel, db.sqlite is ephemeral unless DATABASE_URL points at Turso or MongoDB
	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
