// Package config содержит конфигурацию клиента notesctl.
package config

import (
	"context"
	"fmt"
	"time"

	pkgconfig "notesapp/pkg/config"
)

const serviceName = "notesctl"

// Config представляет конфигурацию клиента.
type Config struct {
	APIURL  string        `yaml:"api_url" env:"NOTESCTL_API_URL" env-default:"http://localhost:5000/api"`
	Timeout time.Duration `yaml:"timeout" env:"NOTESCTL_TIMEOUT" env-default:"10s"`
}

// Load читает конфигурацию клиента из окружения и необязательного файла .env.
func Load(ctx context.Context) (*Config, error) {
	cfg, err := pkgconfig.Load[Config](ctx, serviceName, ".env")
	if err != nil {
		return nil, fmt.Errorf("failed to load client configuration: %w", err)
	}
	return cfg, nil
}
