package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"admin-service/internal/config"
)

const schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";

CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'USER',
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	avatar TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	sku TEXT NOT NULL UNIQUE,
	price BIGINT NOT NULL,
	quantity INT NOT NULL DEFAULT 0,
	category TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'ACTIVE',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	order_no TEXT NOT NULL UNIQUE,
	user_id UUID NOT NULL REFERENCES users(id),
	total BIGINT NOT NULL,
	status TEXT NOT NULL DEFAULT 'PENDING',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS order_items (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id UUID NOT NULL REFERENCES products(id),
	quantity INT NOT NULL,
	price BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS activity_logs (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id UUID NOT NULL,
	action TEXT NOT NULL,
	entity TEXT NOT NULL,
	entity_id UUID,
	details TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users (email);
CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id);
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items (order_id);
CREATE INDEX IF NOT EXISTS idx_activity_logs_user_id ON activity_logs (user_id);
`

type seedUser struct {
	email    string
	name     string
	password string
	role     string
}

var seedUsers = []seedUser{
	{"admin@example.com", "Admin User", "admin12345", "ADMIN"},
	{"manager@example.com", "Manager User", "manager12345", "MANAGER"},
	{"user@example.com", "Regular User", "user12345", "USER"},
}

type seedProduct struct {
	name     string
	sku      string
	price    int64
	quantity int
	category string
}

var seedProducts = []seedProduct{
	{"Wireless Mouse", "WM-1001", 2999, 150, "Electronics"},
	{"Mechanical Keyboard", "MK-2001", 8999, 75, "Electronics"},
	{"Office Chair", "OC-3001", 18999, 30, "Furniture"},
	{"Standing Desk", "SD-3002", 44999, 12, "Furniture"},
	{"USB-C Hub", "UH-1002", 4599, 200, "Electronics"},
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("Connected to database")

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}

	fmt.Println("Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Seeding Users ===")
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), 12)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.email, err)
		}

		result, err := db.Exec(`
			INSERT INTO users (email, name, password_hash, role, status)
			VALUES ($1, $2, $3, $4, 'ACTIVE')
			ON CONFLICT (email) DO NOTHING`,
			u.email, u.name, string(hash), u.role)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.email, err)
		}

		if n, _ := result.RowsAffected(); n > 0 {
			fmt.Printf("  created %s (%s)\n", u.email, u.role)
		} else {
			fmt.Printf("  exists  %s\n", u.email)
		}
	}

	fmt.Println()
	fmt.Println("=== Seeding Products ===")
	for _, p := range seedProducts {
		result, err := db.Exec(`
			INSERT INTO products (name, sku, price, quantity, category, status)
			VALUES ($1, $2, $3, $4, $5, 'ACTIVE')
			ON CONFLICT (sku) DO NOTHING`,
			p.name, p.sku, p.price, p.quantity, p.category)
		if err != nil {
			log.Fatalf("Failed to seed product %s: %v", p.sku, err)
		}

		if n, _ := result.RowsAffected(); n > 0 {
			fmt.Printf("  created %s (%s)\n", p.name, p.sku)
		} else {
			fmt.Printf("  exists  %s\n", p.sku)
		}
	}

	fmt.Println()
	fmt.Println("Done.")
}
