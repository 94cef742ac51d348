package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Valentin39220/bini-crm/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "crm",
		Password: "secret",
		Name:     "binicrm",
	}
	assert.Equal(t, "host=db port=5433 user=crm password=secret dbname=binicrm sslmode=disable", DSN(cfg))

	cfg.SSLMode = "require"
	assert.Contains(t, DSN(cfg), "sslmode=require")
}
