package config

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestLoadDefaults(t *testing.T) {
	c := qt.New(t)

	cfg, err := Load()
	c.Assert(err, qt.IsNil)

	c.Assert(cfg.DB.Host, qt.Equals, "localhost")
	c.Assert(cfg.DB.Port, qt.Equals, "5432")
	c.Assert(cfg.Server.Port, qt.Equals, "8080")
	c.Assert(cfg.Tenant.ConnectRetries, qt.Equals, 3)
	c.Assert(cfg.Tenant.ConnectBackoff, qt.Equals, 500*time.Millisecond)
	c.Assert(cfg.Tenant.ProvisionTimeout, qt.Equals, 30*time.Second)
}

func TestLoadFromEnvironment(t *testing.T) {
	c := qt.New(t)

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("TENANT_CONNECT_RETRIES", "5")
	t.Setenv("TENANT_CONNECT_BACKOFF", "2s")
	t.Setenv("TENANT_PROVISION_TIMEOUT", "1m")

	cfg, err := Load()
	c.Assert(err, qt.IsNil)

	c.Assert(cfg.DB.Host, qt.Equals, "db.internal")
	c.Assert(cfg.DB.Port, qt.Equals, "5433")
	c.Assert(cfg.Tenant.ConnectRetries, qt.Equals, 5)
	c.Assert(cfg.Tenant.ConnectBackoff, qt.Equals, 2*time.Second)
	c.Assert(cfg.Tenant.ProvisionTimeout, qt.Equals, time.Minute)
}

func TestGetDSN(t *testing.T) {
	c := qt.New(t)

	db := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "panel",
		SSLMode:  "disable",
	}
	c.Assert(db.GetDSN(), qt.Equals,
		"host=localhost port=5432 user=postgres password=secret dbname=panel sslmode=disable")
}

func TestMalformedEnvFallsBack(t *testing.T) {
	c := qt.New(t)

	t.Setenv("TENANT_CONNECT_RETRIES", "lots")
	t.Setenv("TENANT_CONNECT_BACKOFF", "soon")

	cfg, err := Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Tenant.ConnectRetries, qt.Equals, 3)
	c.Assert(cfg.Tenant.ConnectBackoff, qt.Equals, 500*time.Millisecond)
}
