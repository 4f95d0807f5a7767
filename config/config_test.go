package config_test

import (
	"testing"

	"hotel/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_POSTGRES_WRITE_HOST", "db.internal")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "hotel", cfg.App.Name)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, "db.internal", cfg.DB.Postgres.Write.Host)
	assert.Equal(t, "localhost", cfg.DB.Postgres.Read.Host)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.DB.Postgres.Write.Host = "localhost"
		cfg.JWT.AccessSecret = "a"
		cfg.JWT.RefreshSecret = "r"

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(_ *config.Config) {}},
		{
			name:    "missing write host",
			mutate:  func(cfg *config.Config) { cfg.DB.Postgres.Write.Host = "" },
			wantErr: "DB_POSTGRES_WRITE_HOST",
		},
		{
			name: "missing secrets in production",
			mutate: func(cfg *config.Config) {
				cfg.Server.Env = config.EnvProduction
				cfg.JWT.RefreshSecret = ""
			},
			wantErr: "JWT_ACCESS_SECRET",
		},
		{
			name:   "missing secrets outside production",
			mutate: func(cfg *config.Config) { cfg.JWT.AccessSecret = "" },
		},
		{
			name: "kafka without topic",
			mutate: func(cfg *config.Config) {
				cfg.Kafka.Enable = true
				cfg.Kafka.Brokers = []string{"k1:9092"}
			},
			wantErr: "KAFKA_TOPICS_BOOKING_EVENTS",
		},
		{
			name: "limiter without window",
			mutate: func(cfg *config.Config) {
				cfg.App.RateLimiter.Enable = true
			},
			wantErr: "WINDOW_SECONDS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
