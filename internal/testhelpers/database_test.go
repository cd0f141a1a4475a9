package testhelpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/database"
)

func TestSetupPostgres(t *testing.T) {
	cfg := SetupPostgres(t)

	// Secrets were picked up from SECRETS_DIR
	assert.Equal(t, "postpass", cfg.DBPassword)
	assert.Equal(t, "test-jwt-secret", cfg.JWTSecret)

	db, err := database.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.NoError(t, database.HealthCheck(context.Background(), db))
}
