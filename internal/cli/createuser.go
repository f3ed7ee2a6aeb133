package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"

	"github.com/bmgraphics/fleetops/internal/common"
	"github.com/bmgraphics/fleetops/internal/server/auth"
	"github.com/bmgraphics/fleetops/internal/server/config"
	"github.com/bmgraphics/fleetops/internal/server/models"
	"github.com/bmgraphics/fleetops/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// runCreateUser provisions a profile directly in the database. Meant to be
// run on the server host; there is no self-registration endpoint.
func (a *App) runCreateUser(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	dsn := fs.String("d", cfg.DatabaseDSN, "database DSN")
	email := fs.String("e", "", "email (login)")
	fullName := fs.String("f", "", "full name")
	role := fs.String("r", common.RoleInstaller, "role (admin or installer)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *fullName == "" {
		return fmt.Errorf("-e and -f are required")
	}
	if *role != common.RoleAdmin && *role != common.RoleInstaller {
		return fmt.Errorf("unknown role %q", *role)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return err
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		FullName:     *fullName,
		Email:        *email,
		Role:         *role,
		PasswordHash: hash,
	}
	if _, err := m.Profiles(db).Create(ctx, profile); err != nil {
		return fmt.Errorf("error creating profile: %w", err)
	}

	fmt.Fprintf(a.out, "created %s user %s (%s)\n", profile.Role, profile.Email, profile.ID)
	return nil
}
