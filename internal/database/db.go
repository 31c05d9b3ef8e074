package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// dsn builds the connection string.
// parseTime=true -> DATETIME scans into time.Time | loc=UTC keeps times consistent.
// clientFoundRows=true -> RowsAffected reports rows matched, not rows changed;
// repositories rely on this to tell "row missing" from "update was a no-op".
func dsn(user, pass, host, port, name string) string {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)
}

// Open connects to MySQL and verifies the connection with a ping.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn(user, pass, host, port, name))
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenWithRetry calls Open up to attempts times, sleeping backoff between
// failures. The database frequently comes up after the server in dev
// compose setups, so the first connection gets a short grace period; once
// open, pool management is left entirely to database/sql.
func OpenWithRetry(user, pass, host, port, name string, attempts int, backoff time.Duration) (*sql.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := Open(user, pass, host, port, name)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Printf("database: connect attempt %d/%d failed: %v", i, attempts, err)
		if i < attempts {
			time.Sleep(backoff)
		}
	}
	return nil, fmt.Errorf("connect after %d attempts: %w", attempts, lastErr)
}
