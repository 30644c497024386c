package db

import (
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"crewdesk/internal/config"
)

// ConnectDB opens the MySQL pool and applies the configured pool limits.
// sqlx.Connect pings once, so a bad DSN fails here rather than on first use.
func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	pool, err := sqlx.Connect("mysql", conf.DSN())
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(conf.DbMaxOpenConns)
	pool.SetMaxIdleConns(conf.DbMaxIdleConns)
	pool.SetConnMaxLifetime(conf.DbConnMaxLifetime)

	return pool, nil
}
