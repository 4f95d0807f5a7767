package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"hotel/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName            = "postgres"
	maxIdleConnections    = 10
	maxOpenConnections    = 20
	connectionMaxLifetime = 30 * time.Minute
)

// Connection splits reads from writes. Anything that must observe a just-committed booking goes through Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one postgres server as configured under DB_POSTGRES_READ_* or DB_POSTGRES_WRITE_*.
type Endpoint struct {
	Name     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSLMode  string
	Timezone string
}

func (e Endpoint) DSN() string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func databaseName(cfg *config.Config, name string) string {
	return cfg.DB.Postgres.Prefix + name
}

func WriteEndpoint(cfg *config.Config) Endpoint {
	write := cfg.DB.Postgres.Write

	return Endpoint{
		Name:     "write",
		Host:     write.Host,
		Port:     write.Port,
		Username: write.Username,
		Password: write.Password,
		Database: databaseName(cfg, write.Name),
		SSLMode:  write.SSLMode,
		Timezone: write.Timezone,
	}
}

func ReadEndpoint(cfg *config.Config) Endpoint {
	read := cfg.DB.Postgres.Read

	return Endpoint{
		Name:     "read",
		Host:     read.Host,
		Port:     read.Port,
		Username: read.Username,
		Password: read.Password,
		Database: databaseName(cfg, read.Name),
		SSLMode:  read.SSLMode,
		Timezone: read.Timezone,
	}
}

func New(cfg *config.Config) *Connection {
	retries := cfg.DB.Postgres.MaxRetry
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second

	return &Connection{
		Read:  mustConnect(ReadEndpoint(cfg), retries, wait),
		Write: mustConnect(WriteEndpoint(cfg), retries, wait),
	}
}

// Ping reports whether both pools can reach their server.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write database unreachable: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read database unreachable: %w", err)
	}

	return nil
}

func (c *Connection) Close() error {
	if err := c.Read.Close(); err != nil {
		return fmt.Errorf("failed to close read pool: %w", err)
	}

	if err := c.Write.Close(); err != nil {
		return fmt.Errorf("failed to close write pool: %w", err)
	}

	return nil
}

// mustConnect tries at least once and stops the process when every attempt fails.
func mustConnect(endpoint Endpoint, retries int, wait time.Duration) *sqlx.DB {
	attempts := max(retries, 1)

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect(driverName, endpoint.DSN())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connectionMaxLifetime)

			log.Info().
				Str("name", endpoint.Name).
				Str("host", endpoint.Host).
				Str("database", endpoint.Database).
				Msg("Connected to database")

			return db
		}

		log.Warn().
			Err(err).
			Str("name", endpoint.Name).
			Str("host", endpoint.Host).
			Int("attempt", attempt).
			Int("attempts", attempts).
			Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	log.Fatal().Err(err).Str("name", endpoint.Name).Msg("Giving up connecting to database")

	return nil
}
