// Command seed bootstraps a fresh deployment with a super-admin, a demo
// workspace and every module enabled. Safe to re-run: all writes are
// upserts or tolerate existing rows.
package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tickops/internal/apperr"
	"tickops/internal/credential"
	"tickops/internal/entitlement"
	"tickops/internal/model"
	"tickops/internal/modules"
	"tickops/internal/session"
	"tickops/internal/tenancy"
	"tickops/pkg/config"
	"tickops/pkg/database"
	"tickops/pkg/logger"
)

const (
	adminEmail    = "admin@tick.com"
	adminPassword = "Admin@12345"
	demoName      = "Demo Workspace"
	demoSlug      = "demo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	db := database.GetDB()
	userStore := credential.NewGormStore(db)
	sessions := session.NewManager(session.NewGormStore(db), cfg.Session.Lifetime)
	auth := credential.NewAuthenticator(userStore, sessions, cfg.Session.BcryptCost)
	directory := tenancy.NewDirectory(tenancy.NewGormStore(db))
	entitlements := entitlement.NewStore(entitlement.NewGormRepo(db))

	ctx := context.Background()

	admin, err := auth.CreateUser(ctx, credential.CreateUserInput{
		Email:      adminEmail,
		Name:       "Super Admin",
		Password:   adminPassword,
		GlobalRole: model.GlobalRoleSuperAdmin,
	})
	if errors.Is(err, apperr.ErrConflict) {
		admin, err = userStore.FindByEmail(ctx, adminEmail)
	}
	if err != nil {
		log.Fatal("Failed to seed admin user", zap.Error(err))
	}

	ws, err := directory.CreateWorkspace(ctx, demoName, demoSlug)
	if errors.Is(err, apperr.ErrConflict) {
		for _, existing := range mustListWorkspaces(ctx, directory, log) {
			if existing.Slug == demoSlug {
				cp := existing
				ws = &cp
				break
			}
		}
		err = nil
	}
	if err != nil {
		log.Fatal("Failed to seed workspace", zap.Error(err))
	}

	if _, err := directory.AddMembership(ctx, admin.ID, ws.ID, model.WorkspaceRoleClientAdmin); err != nil {
		log.Fatal("Failed to seed membership", zap.Error(err))
	}

	for _, mod := range modules.Catalog {
		if _, err := entitlements.SetEnabled(ctx, ws.ID, mod.Key, true); err != nil {
			log.Fatal("Failed to enable module", zap.String("module_key", mod.Key), zap.Error(err))
		}
	}

	log.Info("Seed complete",
		zap.String("admin_email", adminEmail),
		zap.String("workspace_slug", ws.Slug))
}

func mustListWorkspaces(ctx context.Context, directory *tenancy.Directory, log *zap.Logger) []model.Workspace {
	workspaces, err := directory.ListWorkspaces(ctx)
	if err != nil {
		log.Fatal("Failed to list workspaces", zap.Error(err))
	}
	return workspaces
}
