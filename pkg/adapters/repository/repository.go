// Package repository picks the place store backend from DATABASE_URL.
package repository

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/repository/mongo"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
	"github.com/wadjakorntonsri/booking-bridge/pkg/ports"
)

// Backend names the store a database URL selects.
func Backend(dbURL string) string {
	if strings.HasPrefix(dbURL, "mongodb://") || strings.HasPrefix(dbURL, "mongodb+srv://") {
		return "mongo"
	}
	return "sqlite"
}

// Open connects to the store configured in cfg. mongodb:// and mongodb+srv://
// URLs select MongoDB, anything else is handed to the sqlite drivers.
func Open(ctx context.Context, cfg *config.Config) (ports.PlaceRepository, error) {
	return OpenURL(ctx, cfg.DatabaseURL, cfg.MongoDatabase)
}

func OpenURL(ctx context.Context, dbURL, mongoDatabase string) (ports.PlaceRepository, error) {
	if Backend(dbURL) == "mongo" {
		return mongo.NewMongoRepository(ctx, dbURL, mongoDatabase)
	}
	return sqlite.NewSQLiteRepository(dbURL)
}
