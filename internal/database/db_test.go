package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDSNWithPassword(t *testing.T) {
	p := Params{User: "arhaval", Pass: "s3cret", Host: "db", Port: "3306", Name: "talent"}
	assert.Equal(t,
		"arhaval:s3cret@tcp(db:3306)/talent?charset=utf8mb4&parseTime=true&loc=UTC",
		p.dsn())
}

func TestDSNWithoutPasswordOmitsColon(t *testing.T) {
	p := Params{User: "arhaval", Host: "localhost", Port: "3306", Name: "talent"}
	assert.Equal(t,
		"arhaval@tcp(localhost:3306)/talent?charset=utf8mb4&parseTime=true&loc=UTC",
		p.dsn())
}

func TestNormalizedFillsPoolDefaults(t *testing.T) {
	p := Params{}.normalized()
	assert.Equal(t, defaultMaxOpenConns, p.MaxOpenConns)
	assert.Equal(t, p.MaxOpenConns, p.MaxIdleConns)
	assert.Equal(t, defaultConnMaxLifetime, p.ConnMaxLifetime)
}

func TestNormalizedClampsIdleToOpen(t *testing.T) {
	p := Params{MaxOpenConns: 5, MaxIdleConns: 50, ConnMaxLifetime: time.Minute}.normalized()
	assert.Equal(t, 5, p.MaxOpenConns)
	assert.Equal(t, 5, p.MaxIdleConns)
	assert.Equal(t, time.Minute, p.ConnMaxLifetime)
}
