package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"yellow-taxi-trips/config"

	_ "github.com/lib/pq"
)

// DSN returns the lib/pq keyword/value connection string.
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// URL returns the same connection as a postgres:// URL, the form golang-migrate expects.
func URL(cfg config.DBConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

const (
	connectAttempts = 10
	connectBackoff  = 3 * time.Second
)

// Open connects the process-wide pool. It waits for the database to accept
// connections, pinging up to connectAttempts times.
func Open(ctx context.Context, cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if attempt == connectAttempts {
			db.Close()
			return nil, fmt.Errorf("database: ping: %w", err)
		}

		log.Println("Waiting for the database to be ready...")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, fmt.Errorf("database: ping: %w", ctx.Err())
		case <-time.After(connectBackoff):
		}
	}

	log.Println("Database connected.")
	return db, nil
}
