package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// legacyEnv holds the split settings older deployments of the users service
// export (USERS_PORT, USERS_DB_*, USERS_JWT_EXPIRATION_HOURS). They apply
// only where the matching USERS_HTTP_ADDR, USERS_DATABASE_DSN or
// USERS_JWT_EXPIRATION is unset.
type legacyEnv struct {
	Port               int    `env:"PORT"`
	DBHost             string `env:"DB_HOST" envDefault:"localhost"`
	DBPort             int    `env:"DB_PORT" envDefault:"5432"`
	DBUser             string `env:"DB_USER" envDefault:"users_user"`
	DBPassword         string `env:"DB_PASSWORD" envDefault:"users_password"`
	DBName             string `env:"DB_NAME" envDefault:"localmart_users"`
	JWTExpirationHours int    `env:"JWT_EXPIRATION_HOURS"`
}

// parseEnv overlays values from USERS_* environment variables. Variables that
// are not set leave the current value untouched.
func parseEnv(cfg *Config) error {
	return parseEnvFrom(cfg, env.ToMap(os.Environ()))
}

func parseEnvFrom(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	legacy, err := env.ParseAsWithOptions[legacyEnv](opts)
	if err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	isSet := func(name string) bool {
		_, ok := environ[EnvPrefix+name]
		return ok
	}

	if isSet("PORT") && !isSet("HTTP_ADDR") {
		cfg.EndpointAddrHTTP = ":" + strconv.Itoa(legacy.Port)
	}
	if !isSet("DATABASE_DSN") &&
		(isSet("DB_HOST") || isSet("DB_PORT") || isSet("DB_USER") || isSet("DB_PASSWORD") || isSet("DB_NAME")) {
		cfg.DatabaseDSN = legacy.dsn()
	}
	if isSet("JWT_EXPIRATION_HOURS") && !isSet("JWT_EXPIRATION") {
		cfg.AccessTokenValidityDuration = time.Duration(legacy.JWTExpirationHours) * time.Hour
	}
	return nil
}

func (l legacyEnv) dsn() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(l.DBUser, l.DBPassword),
		Host:     net.JoinHostPort(l.DBHost, strconv.Itoa(l.DBPort)),
		Path:     "/" + l.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
