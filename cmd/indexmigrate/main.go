// Command indexmigrate transitions one tenant's panel constraint from
// the obsolete panel-name-only uniqueness rule to the compound
// (panel name, circuit) rule. It runs out-of-band against the store,
// never on the request path, and is safe to re-run.
//
// Usage:
//
//	indexmigrate <site> <company>
//
// Without arguments, site and company fall back to the SITE and
// COMPANY environment variables.
package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/config"
	"github.com/Psychotichub/panel/pkg/database"
	"github.com/Psychotichub/panel/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	log := logger.GetLogger()

	site := os.Getenv("SITE")
	company := os.Getenv("COMPANY")
	if len(os.Args) > 1 {
		site = os.Args[1]
	}
	if len(os.Args) > 2 {
		company = os.Args[2]
	}
	if site == "" || company == "" {
		fmt.Fprintln(os.Stderr, "Usage: indexmigrate <site> <company> (or set SITE and COMPANY)")
		os.Exit(1)
	}

	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	key := tenant.NewKey(site, company)
	log.Info("Migrating panel indexes", zap.String("tenant", key.String()))

	report, err := tenant.MigratePanelIndexes(context.Background(), database.GetDB(), key, log)
	if err != nil {
		log.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Tenant:  %s\n", report.Tenant)
	fmt.Printf("Before:  %v\n", report.Before)
	fmt.Printf("After:   %v\n", report.After)
	if report.Dropped {
		fmt.Println("Dropped obsolete panel-name constraint")
	}
	if report.Created {
		fmt.Println("Created compound panel-name/circuit constraint")
	}
	fmt.Println("Migration completed successfully")
}
