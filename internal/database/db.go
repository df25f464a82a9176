package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// pingTimeout bounds the startup connectivity check; a database that cannot
// answer within this window fails Open rather than hanging boot.
const pingTimeout = 5 * time.Second

// Default pool sizing for a single-instance deployment. Overridable through
// the DB_MAX_* env vars surfaced in config.
const (
	defaultMaxOpenConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
)

// Params carries the MySQL endpoint plus the pool knobs. Zero pool values
// take the defaults above; MaxIdleConns never exceeds MaxOpenConns.
type Params struct {
	User            string
	Pass            string
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// dsn builds the go-sql-driver connection string. parseTime lets DATETIME
// columns scan into time.Time; loc=UTC matches the zone every repository
// writes review and audit timestamps in.
func (p Params) dsn() string {
	auth := p.User
	if p.Pass != "" {
		auth = p.User + ":" + p.Pass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, p.Host, p.Port, p.Name)
}

// normalized fills in defaults for unset pool values and clamps the idle
// count to the open count.
func (p Params) normalized() Params {
	if p.MaxOpenConns <= 0 {
		p.MaxOpenConns = defaultMaxOpenConns
	}
	if p.MaxIdleConns <= 0 || p.MaxIdleConns > p.MaxOpenConns {
		p.MaxIdleConns = p.MaxOpenConns
	}
	if p.ConnMaxLifetime <= 0 {
		p.ConnMaxLifetime = defaultConnMaxLifetime
	}
	return p
}

// Open connects to MySQL, applies the pool settings and verifies the
// connection with a bounded ping.
func Open(p Params) (*sql.DB, error) {
	p = p.normalized()
	db, err := sql.Open("mysql", p.dsn())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
