package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Params describes a PostgreSQL endpoint.
type Params struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders p as a postgresql:// URL. DATABASE_URL, when set, wins.
func (p Params) DSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%s", getDefault(p.Host, "localhost"), getDefault(p.Port, "5432")),
		Path:   "/" + getDefault(p.Name, "yatube"),
	}
	user := getDefault(p.User, "user")
	if p.Password == "" {
		// local dev without password
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, p.Password)
	}
	q := url.Values{}
	q.Set("sslmode", getDefault(p.SSLMode, "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

// Open creates a *sql.DB on the pgx driver and pings it with a short timeout to verify connectivity.
func Open(ctx context.Context, p Params) (*sql.DB, error) {
	db, err := sql.Open("pgx", p.DSN())
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func getDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
