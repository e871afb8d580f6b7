package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configDir)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB, "production")
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := db.Exec(`TRUNCATE notification_target_officers, notifications, global_reports, alerts,
				incidents, security_officers, geofences, sub_admin_profiles, users, organizations
				RESTART IDENTITY CASCADE`).Error; err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		orgID := ensureRow(db, "SELECT id FROM organizations WHERE name = ?", []interface{}{"Acme Security"},
			"INSERT INTO organizations (name, description, created_at, updated_at) VALUES (?, ?, now(), now())",
			"Acme Security", "Sample organization")
		fmt.Println("Seeded organization: Acme Security")

		superAdminID := ensureRow(db, "SELECT id FROM users WHERE username = ?", []interface{}{"superadmin"},
			`INSERT INTO users (username, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'SUPER_ADMIN', true, now(), now())`,
			"superadmin", "superadmin@mail.com", string(hash), "Super", "Admin")
		fmt.Println("Seeded super admin: superadmin")

		subAdminID := ensureRow(db, "SELECT id FROM users WHERE username = ?", []interface{}{"subadmin"},
			`INSERT INTO users (username, email, password_hash, first_name, last_name, role, organization_id, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'SUB_ADMIN', ?, true, now(), now())`,
			"subadmin", "subadmin@mail.com", string(hash), "Sub", "Admin", orgID)
		ensureRow(db, "SELECT id FROM sub_admin_profiles WHERE user_id = ?", []interface{}{subAdminID},
			`INSERT INTO sub_admin_profiles (user_id, permissions, assigned_scope, is_active, created_by_id, created_at, updated_at)
			VALUES (?, 'FULL_ACCESS', 'LOCAL', true, ?, now(), now())`,
			subAdminID, superAdminID)
		fmt.Println("Seeded sub admin: subadmin")

		ensureRow(db, "SELECT id FROM users WHERE username = ?", []interface{}{"guard"},
			`INSERT INTO users (username, email, password_hash, role, organization_id, is_active, created_at, updated_at)
			VALUES (?, ?, ?, 'USER', ?, true, now(), now())`,
			"guard", "guard@mail.com", string(hash), orgID)
		fmt.Println("Seeded user: guard")

		polygon := `{"type":"Polygon","coordinates":[[[106.8200,-6.2000],[106.8300,-6.2000],[106.8300,-6.1900],[106.8200,-6.1900],[106.8200,-6.2000]]]}`
		geofenceID := ensureRow(db, "SELECT id FROM geofences WHERE name = ? AND organization_id = ?", []interface{}{"Head Office", orgID},
			`INSERT INTO geofences (name, description, polygon_json, active, organization_id, created_by_id, created_at, updated_at)
			VALUES (?, ?, ?::jsonb, true, ?, ?, now(), now())`,
			"Head Office", "Perimeter around the head office", polygon, orgID, subAdminID)
		fmt.Println("Seeded geofence: Head Office")

		officers := []struct {
			Name    string
			Contact string
			Email   string
		}{
			{"Budi Santoso", "+628111111111", "budi@mail.com"},
			{"Siti Rahma", "+628122222222", "siti@mail.com"},
		}
		for _, o := range officers {
			ensureRow(db, "SELECT id FROM security_officers WHERE name = ? AND organization_id = ?", []interface{}{o.Name, orgID},
				`INSERT INTO security_officers (name, contact, email, is_active, organization_id, assigned_geofence_id, created_by_id, created_at, updated_at)
				VALUES (?, ?, ?, true, ?, ?, ?, now(), now())`,
				o.Name, o.Contact, o.Email, orgID, geofenceID, subAdminID)
			fmt.Printf("Seeded security officer: %s\n", o.Name)
		}

		fmt.Println("Sample data seeded successfully")
	},
}

// ensureRow returns the id found by lookup, inserting the row first when it is missing.
func ensureRow(db *gorm.DB, lookup string, lookupArgs []interface{}, insert string, insertArgs ...interface{}) int64 {
	var id int64
	if err := db.Raw(lookup, lookupArgs...).Row().Scan(&id); err == nil {
		return id
	}

	if err := db.Exec(insert, insertArgs...).Error; err != nil {
		log.Fatalf("failed to seed row: %v", err)
	}
	if err := db.Raw(lookup, lookupArgs...).Row().Scan(&id); err != nil {
		log.Fatalf("seeded row not found: %v", err)
	}
	return id
}
