package migrations

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/config"
	"laundry_manager/internal/database"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"laundry_manager/internal/services"
	"log"

	"gorm.io/gorm"
)

// defaultCatalog seeds an empty price list. Prices are in whole pesos.
var defaultCatalog = []models.Service{
	{Name: "Lavado", Kind: models.ServiceWash, Price: 3500},
	{Name: "Secado", Kind: models.ServiceDry, Price: 3000},
	{Name: "Valet", Kind: models.ServiceValet, Price: 6000},
	{Name: "Planchado", Kind: models.ServiceIroning, Price: 2500},
	{Name: "Saco", Kind: models.ServiceDryCleaning, Price: 8000},
	{Name: "Pantalón", Kind: models.ServiceDryCleaning, Price: 6500},
	{Name: "Tapado", Kind: models.ServiceDryCleaning, Price: 12000},
	{Name: "Acolchado", Kind: models.ServiceDryCleaning, Price: 15000},
}

// RunMigrations migrates the schema and creates the default data. It is safe
// to run on every start.
func RunMigrations(db *gorm.DB, cfg *config.Config) error {
	log.Println("Running database migrations...")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := createDefaultData(context.Background(), db, cfg); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

func createDefaultData(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	log.Println("Creating default data...")

	err := db.WithContext(ctx).Exec(`
		INSERT INTO counters (name, value, updated_at)
		VALUES (?, 0, now())
		ON CONFLICT (name) DO NOTHING
	`, models.TicketCounter).Error
	if err != nil {
		return err
	}

	if err := seedCatalog(ctx, repository.NewServiceRepository(db)); err != nil {
		return err
	}
	return seedAdmin(ctx, db, cfg)
}

func seedCatalog(ctx context.Context, serviceRepo repository.ServiceRepository) error {
	existing, err := serviceRepo.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("Catalog already has %d services", len(existing))
		return nil
	}
	catalog := services.NewCatalogService(serviceRepo)
	for _, svc := range defaultCatalog {
		if _, err := catalog.CreateService(ctx, svc.Name, svc.Kind, svc.Price); err != nil && !apperr.IsConflict(err) {
			return err
		}
	}
	log.Printf("Created %d default services", len(defaultCatalog))
	return nil
}

// seedAdmin creates the first administrator from ADMIN_USERNAME and
// ADMIN_PASSWORD. Nothing is created when either is unset.
func seedAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}
	userRepo := repository.NewUserRepository(db)
	if _, err := userRepo.GetByUsername(ctx, cfg.AdminUsername); err == nil {
		log.Println("Admin user already exists")
		return nil
	} else if !apperr.IsNotFound(err) {
		return err
	}

	authService := services.NewAuthService(userRepo, services.NewPasswordAuthenticator(userRepo), nil)
	if _, err := authService.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword, models.Admin); err != nil {
		return err
	}
	log.Printf("Admin user %q created successfully", cfg.AdminUsername)
	return nil
}
