package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// blank imports register the postgres driver and file source for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LuckyFuZsion/webfuzsion-admin/internal/config"
	"github.com/LuckyFuZsion/webfuzsion-admin/internal/models"
)

// ConnectAndMigrate opens the database and brings the schema up to date.
// MIGRATIONS=1 runs the SQL migrations under ./migrations via golang-migrate;
// otherwise AutoMigrate keeps dev setups working without the files.
func ConnectAndMigrate() (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
	}
	var db *gorm.DB
	var err error
	logLevel := logger.Silent
	if config.ParseBool("DB_DEBUG", false) {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	fmt.Println("[DB] Using DSN:", masked)

	if config.ParseBool("MIGRATIONS", false) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.Customer{}, &models.Invoice{}, &models.InvoiceItem{}, &models.Quote{}, &models.QuoteItem{},
		}
		for _, m := range modelsToMigrate {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	// sanity check: the core tables must exist whichever path ran
	for _, table := range []string{"customers", "invoices", "invoice_items", "quotes", "quote_items"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if config.ParseBool("DB_SEED", false) {
		seed(db)
	}
	return db, nil
}

// seed inserts a demo customer for local development.
func seed(db *gorm.DB) {
	demo := models.Customer{
		ID:      "7d9f6f2e-8e2a-4f5b-9c1d-3a8b4c5d6e7f",
		Name:    "Demo Customer",
		Email:   "demo@webfuzsion.co.uk",
		City:    "Grantham",
		Country: "United Kingdom",
	}
	var existing models.Customer
	if err := db.Where("email = ?", demo.Email).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		db.Create(&demo)
	}
}

// runSQLMigrations executes the files under ./migrations. golang-migrate only
// speaks URL DSNs, so key=value form is converted first.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", ToURLDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
