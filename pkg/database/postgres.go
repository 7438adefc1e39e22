package database

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/bruintracks/bruintracks-go/pkg/config"
)

// NewCatalog opens the read-only catalog store. CATALOG_URL is a Postgres
// DSN; when CATALOG_KEY is set it supplies the password for DSNs that omit
// one.
func NewCatalog(cfg config.CatalogConfig) (*sqlx.DB, error) {
	dsn, err := withCredential(cfg.URL, cfg.Key)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func withCredential(rawURL, key string) (string, error) {
	if key == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse catalog url: %w", err)
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			return rawURL, nil
		}
		u.User = url.UserPassword(u.User.Username(), key)
	} else {
		u.User = url.UserPassword("postgres", key)
	}
	return u.String(), nil
}
