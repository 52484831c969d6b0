// Command seed creates the initial admin account, or promotes it if the
// email is already registered.
package main

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/domain"
	"socialapp/internal/pkg/logger"
	"socialapp/internal/pkg/validator"
	"socialapp/internal/repository"
)

type adminSeed struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	v := viper.New()
	v.SetDefault("SEED_ADMIN_EMAIL", "admin@socialapp.local")
	v.SetDefault("SEED_ADMIN_NAME", "Administrator")
	v.AutomaticEnv()

	seed := adminSeed{
		Email:    v.GetString("SEED_ADMIN_EMAIL"),
		Password: v.GetString("SEED_ADMIN_PASSWORD"),
		Name:     v.GetString("SEED_ADMIN_NAME"),
	}
	if errs := validator.Validate(seed); errs != nil {
		zlog.Fatal("invalid seed settings (SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD, SEED_ADMIN_NAME)", zap.Any("errors", errs))
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	if err := seedAdmin(context.Background(), repository.NewUserRepository(db), seed); err != nil {
		zlog.Fatal("seed failed", zap.Error(err))
	}
	zlog.Info("admin account ready", zap.String("email", seed.Email))
}

func seedAdmin(ctx context.Context, users *repository.UserRepository, seed adminSeed) error {
	existing, err := users.GetByEmail(ctx, seed.Email)
	switch {
	case err == nil:
		_, err = users.SetRole(ctx, existing.ID, domain.RoleAdmin)
		return err
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return users.Create(ctx, &domain.User{
		Email:        seed.Email,
		PasswordHash: string(hash),
		Name:         seed.Name,
		Role:         domain.RoleAdmin,
	})
}
