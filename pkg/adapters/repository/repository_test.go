package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/booking-bridge/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/booking-bridge/pkg/config"
)

func TestBackend(t *testing.T) {
	tests := map[string]string{
		"file:db.sqlite":                     "sqlite",
		"libsql://db.turso.io?authToken=x":   "sqlite",
		"mongodb://localhost:27017":          "mongo",
		"mongodb+srv://cluster.example.net/": "mongo",
	}
	for url, want := range tests {
		assert.Equal(t, want, Backend(url), url)
	}
}

func TestOpenSQLite(t *testing.T) {
	repo, err := Open(context.Background(), &config.Config{DatabaseURL: "file:open_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	defer repo.Close()
	assert.IsType(t, &sqlite.SQLiteRepository{}, repo)
}
