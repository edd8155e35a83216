// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Extensions: gen_random_uuid for primary keys, PostGIS for the
	// spatial predicates on the proximity read path.
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return fmt.Errorf("failed to create PostGIS extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.MaterialCategory{},
		&models.Material{},
		&models.Organization{},
		&models.Item{},
		&models.Image{},
		&models.Transaction{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",

		// Item indexes
		"CREATE INDEX IF NOT EXISTS idx_items_creator ON items(creator_id)",
		"CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)",
		"CREATE INDEX IF NOT EXISTS idx_items_material_status ON items(material_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_organization_status ON items(organization_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_items_price ON items(price)",
		"CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC)",

		// Spatial index over the coordinate pair; backs ST_DWithin on
		// the map query. Partial: only rows eligible for proximity
		// reads are indexed.
		"CREATE INDEX IF NOT EXISTS idx_items_location ON items USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography)) WHERE latitude IS NOT NULL AND longitude IS NOT NULL",

		// Image indexes
		"CREATE INDEX IF NOT EXISTS idx_images_item_primary ON images(item_id, is_primary)",

		// Transaction indexes
		"CREATE INDEX IF NOT EXISTS idx_transactions_buyer ON transactions(buyer_id)",
		"CREATE INDEX IF NOT EXISTS idx_transactions_item_status ON transactions(item_id, status)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_items_search ON items USING GIN(to_tsvector('portuguese', title || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Name:   "Administrador",
			Email:  "admin@ecoleta.com.br",
			Role:   models.UserRoleAdmin,
			Status: models.UserStatusActive,
			ProfileData: models.JSONB{
				"role": "super_admin",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Base material categories and materials
	categories := map[string][]string{
		"Papel":      {"Papelão", "Jornal", "Revista"},
		"Plástico":   {"PET", "PEAD", "PVC"},
		"Metal":      {"Alumínio", "Aço", "Cobre"},
		"Vidro":      {"Vidro transparente", "Vidro colorido"},
		"Eletrônico": {"Pilhas e baterias", "Celulares", "Placas"},
		"Orgânico":   {"Resíduo orgânico", "Óleo de cozinha"},
	}

	for categoryName, materials := range categories {
		var category models.MaterialCategory
		err := db.Where("name = ?", categoryName).First(&category).Error
		if err != nil {
			category = models.MaterialCategory{Name: categoryName}
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Warning: Failed to create category %s: %v", categoryName, err)
				continue
			}
		}

		for _, materialName := range materials {
			var count int64
			db.Model(&models.Material{}).Where("name = ?", materialName).Count(&count)
			if count == 0 {
				material := models.Material{
					Name:       materialName,
					CategoryID: &category.ID,
					IsActive:   true,
				}
				if err := db.Create(&material).Error; err != nil {
					log.Printf("Warning: Failed to create material %s: %v", materialName, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
