package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"storefront-admin/config"
)

// InitDB opens the MySQL pool and waits for the server to answer.
func InitDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	dsn := mysql.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = cfg.DBHost + ":" + cfg.DBPort
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.UTC

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %s: %w", dsn.Addr, err)
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id            VARCHAR(36)    NOT NULL PRIMARY KEY,
		name          VARCHAR(255)   NOT NULL,
		description   TEXT           NOT NULL,
		image         VARCHAR(1024)  NOT NULL DEFAULT '',
		price         DECIMAL(12,2)  NOT NULL DEFAULT 0,
		mrp           DECIMAL(12,2)  NULL,
		stock         INT            NOT NULL DEFAULT 0,
		total_sold    INT            NOT NULL DEFAULT 0,
		total_revenue DECIMAL(14,2)  NOT NULL DEFAULT 0,
		category      VARCHAR(128)   NOT NULL DEFAULT '',
		created_at    DATETIME(3)    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		name       VARCHAR(128) NOT NULL PRIMARY KEY,
		created_at DATETIME(3)  NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               VARCHAR(36)   NOT NULL PRIMARY KEY,
		customer_name    VARCHAR(255)  NOT NULL,
		customer_email   VARCHAR(255)  NOT NULL,
		customer_phone   VARCHAR(64)   NOT NULL DEFAULT '',
		customer_address VARCHAR(512)  NOT NULL DEFAULT '',
		customer_city    VARCHAR(128)  NOT NULL DEFAULT '',
		customer_zip     VARCHAR(32)   NOT NULL DEFAULT '',
		subtotal         DECIMAL(14,2) NOT NULL,
		tax              DECIMAL(14,2) NOT NULL,
		total            DECIMAL(14,2) NOT NULL,
		status           VARCHAR(16)   NOT NULL,
		payment_status   VARCHAR(16)   NOT NULL,
		payment_method   VARCHAR(64)   NOT NULL DEFAULT '',
		tracking_number  VARCHAR(128)  NULL,
		created_at       DATETIME(3)   NOT NULL,
		INDEX idx_orders_created_at (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id           BIGINT        NOT NULL AUTO_INCREMENT PRIMARY KEY,
		order_id     VARCHAR(36)   NOT NULL,
		product_id   VARCHAR(36)   NOT NULL,
		product_name VARCHAR(255)  NOT NULL,
		quantity     INT           NOT NULL,
		price        DECIMAL(12,2) NOT NULL,
		image        VARCHAR(1024) NOT NULL DEFAULT '',
		INDEX idx_order_items_order_id (order_id)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id          VARCHAR(36)   NOT NULL PRIMARY KEY,
		name        VARCHAR(255)  NOT NULL,
		email       VARCHAR(255)  NOT NULL UNIQUE,
		role        VARCHAR(16)   NOT NULL DEFAULT 'user',
		status      VARCHAR(16)   NOT NULL DEFAULT 'active',
		is_verified BOOLEAN       NOT NULL DEFAULT FALSE,
		avatar      VARCHAR(1024) NOT NULL DEFAULT '',
		created_at  DATETIME(3)   NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
	)`,
}

// Migrate creates the tables the MySQL store reads and writes.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
