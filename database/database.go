package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/Balaga-Lokesh/SAVR-sub000/models"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

var Database *DB

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Database = &DB{db}
	return Database, nil
}

// InitializeTables creates all tables if they don't exist
func (db *DB) InitializeTables() error {
	// Order matters: referenced tables first.
	tables := []interface{}{
		models.User{},
		models.Admin{},
		models.Mart{},
		models.Address{},
		models.Product{},
		models.Offer{},
		models.Review{},
		models.Basket{},
		models.Order{},
		models.OrderItem{},
		models.DeliveryPartner{},
		models.Delivery{},
		models.OTPCode{},
		models.UserToken{},
		models.PartnerToken{},
		models.AnalyticsLog{},
		models.Payment{},
	}

	for _, model := range tables {
		if tableModel, ok := model.(interface {
			TableName() string
			CreateTableSQL() string
		}); ok {
			tableName := tableModel.TableName()
			createSQL := tableModel.CreateTableSQL()

			log.Printf("Creating table: %s", tableName)
			if _, err := db.Exec(createSQL); err != nil {
				return fmt.Errorf("failed to create table %s: %w", tableName, err)
			}
		}
	}

	if err := db.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("All tables created successfully!")
	return nil
}

// runMigrations handles schema updates for existing tables
func (db *DB) runMigrations() error {
	migrations := []string{
		// Partner approval came after the first deployments.
		`ALTER TABLE delivery_partners ADD COLUMN IF NOT EXISTS approved BOOLEAN NOT NULL DEFAULT false;`,

		// Address snapshot columns on historical orders.
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_address_snapshot TEXT;`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_address_lat NUMERIC(10,6);`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_address_long NUMERIC(10,6);`,
		`ALTER TABLE orders ADD COLUMN IF NOT EXISTS contact_number VARCHAR(20);`,

		// Per-unit weight for delivery pricing.
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS unit_weight_kg NUMERIC(6,3) NOT NULL DEFAULT 1.0;`,
		`ALTER TABLE products ADD COLUMN IF NOT EXISTS image_url VARCHAR(255);`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
