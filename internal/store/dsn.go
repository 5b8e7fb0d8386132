package store

import (
	"net/url"
	"os"
)

// DSNFromEnv builds a postgres URL from the PG_* variables
func DSNFromEnv() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   getenv("PG_HOST", "localhost") + ":" + getenv("PG_PORT", "5432"),
		Path:   "/" + getenv("PG_DB", "marketplace"),
	}
	user := getenv("PG_USER", "postgres")
	if pass := os.Getenv("PG_PASSWORD"); pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	q := url.Values{}
	q.Set("sslmode", getenv("PG_SSLMODE", "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// RedactDSN hides the password of a URL-form DSN for logging
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
