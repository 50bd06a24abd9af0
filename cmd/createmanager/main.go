// Command createmanager bootstraps a manager account from environment
// variables. Manager accounts are globally unique by username and carry
// no tenant scope; they are normally created once per deployment.
//
// Required: MANAGER_USERNAME and MANAGER_PASSWORD (USERNAME and
// PASSWORD accepted as fallbacks). Optional: MANAGER_EMAIL.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/identity"
	"github.com/Psychotichub/panel/internal/model"
	"github.com/Psychotichub/panel/pkg/config"
	"github.com/Psychotichub/panel/pkg/database"
	"github.com/Psychotichub/panel/pkg/hash"
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

	// Prefer MANAGER_* variables to avoid collisions with OS-level
	// USERNAME on some platforms.
	username := firstEnv("MANAGER_USERNAME", "USERNAME")
	password := firstEnv("MANAGER_PASSWORD", "PASSWORD")

	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "MANAGER_USERNAME and MANAGER_PASSWORD must be set")
		os.Exit(1)
	}
	if strings.TrimSpace(password) == "" || password == "change_this_password" {
		fmt.Fprintln(os.Stderr, "MANAGER_PASSWORD must be set to a real password")
		os.Exit(1)
	}

	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	store := identity.NewStore(database.GetDB(), hash.NewBcrypt(), log)
	user, err := store.Create(context.Background(), username, password, model.RoleManager, nil, "bootstrap")
	if err != nil {
		log.Error("Failed to create manager account", zap.Error(err))
		os.Exit(1)
	}

	fmt.Println("Manager account created successfully")
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Role:     %s\n", user.Role)
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
