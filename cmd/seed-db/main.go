package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/petfolk/pawmart/internal/storage/postgres"
)

type productJSON struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Stock       int              `json:"stock"`
}

type branchJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		branchesFile  string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&branchesFile, "branches-file", "db/seed/branches.json", "path to branches JSON file")
	flag.StringVar(&adminEmail, "admin-email", "admin@pawmart.local", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or PAWMART_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("PAWMART_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or PAWMART_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, branchesFile, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, branchesFile, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}
	if err := seedBranches(ctx, pool, branchesFile); err != nil {
		return errors.Wrap(err, "seed branches")
	}
	if err := seedPlans(ctx, pool); err != nil {
		return errors.Wrap(err, "seed plans")
	}
	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin account")
	}
	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, description, category, price, sale_price, stock_quantity, active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, true)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name,
			   description = EXCLUDED.description,
			   category = EXCLUDED.category,
			   price = EXCLUDED.price,
			   sale_price = EXCLUDED.sale_price,
			   stock_quantity = EXCLUDED.stock_quantity`,
			p.ID, p.Name, p.Description, p.Category, p.Price, p.SalePrice, p.Stock)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}
	return nil
}

func seedBranches(ctx context.Context, pool *pgxpool.Pool, branchesFile string) error {
	slog.Info("reading branches file", slog.String("path", branchesFile))

	data, err := os.ReadFile(branchesFile)
	if err != nil {
		return errors.Wrap(err, "read branches file")
	}

	var branches []branchJSON
	if err := json.Unmarshal(data, &branches); err != nil {
		return errors.Wrap(err, "parse branches JSON")
	}

	for _, b := range branches {
		_, err := pool.Exec(ctx,
			`INSERT INTO branches (id, name, address, open_time, close_time)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name,
			   address = EXCLUDED.address,
			   open_time = EXCLUDED.open_time,
			   close_time = EXCLUDED.close_time`,
			b.ID, b.Name, b.Address, b.OpenTime, b.CloseTime)
		if err != nil {
			return errors.Wrapf(err, "upsert branch %s", b.ID)
		}

		slog.Info("upserted branch", slog.String("id", b.ID), slog.String("name", b.Name))
	}
	return nil
}

func seedPlans(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding subscription plans")

	plans := []struct {
		id, name, description string
		price                 decimal.Decimal
		periodDays            int
	}{
		{"plan-basic", "Basic Care", "Monthly grooming visit and health check", decimal.NewFromInt(150000), 30},
		{"plan-plus", "Care Plus", "Grooming, health check and food delivery", decimal.NewFromInt(400000), 30},
		{"plan-annual", "Annual Care", "Full care package billed yearly", decimal.NewFromInt(3600000), 365},
	}

	for _, p := range plans {
		_, err := pool.Exec(ctx,
			`INSERT INTO subscription_plans (id, name, description, price, period_days, active)
			 VALUES ($1, $2, $3, $4, $5, true)
			 ON CONFLICT (id) DO UPDATE SET
			   name = EXCLUDED.name,
			   description = EXCLUDED.description,
			   price = EXCLUDED.price,
			   period_days = EXCLUDED.period_days`,
			p.id, p.name, p.description, p.price, p.periodDays)
		if err != nil {
			return errors.Wrapf(err, "upsert plan %s", p.id)
		}

		slog.Info("upserted plan", slog.String("id", p.id), slog.String("name", p.name))
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash admin password")
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, phone, role)
		 VALUES ('admin', $1, $2, 'Administrator', '', 'admin')
		 ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash`,
		email, string(hash))
	return errors.Wrap(err, "upsert admin user")
}
