package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/localmart-users/internal/flagx"
	"github.com/dmitrijs2005/localmart-users/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Fields
// left out of the file keep the value they had before parseJson ran.
type JsonConfig struct {
	EndpointAddrHTTP            *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	ServiceName                 *string         `json:"service_name"`
	Version                     *string         `json:"version"`
	LogLevel                    *string         `json:"log_level"`
	CORSAllowedOrigins          []string        `json:"cors_allowed_origins"`
	ShutdownTimeout             *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads values from the JSON file named by -c/-config, if any.
// An unreadable file or invalid JSON panics, like a bad flag does.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.ServiceName, c.ServiceName)
	setString(&config.Version, c.Version)
	setString(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
