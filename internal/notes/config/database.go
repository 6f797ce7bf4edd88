package config

import (
	"fmt"
	"time"

	"notesapp/pkg/db/postgres"
)

// PostgresConfig содержит настройки подключения к базе данных.
type PostgresConfig struct {
	Host            string        `yaml:"host" env:"NOTES_POSTGRES_HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"NOTES_POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"NOTES_POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"NOTES_POSTGRES_PASSWORD" env-default:"postgres"`
	Database        string        `yaml:"database" env:"NOTES_POSTGRES_DB" env-default:"notes_app"`
	MinConn         int           `yaml:"min_conn" env:"NOTES_POSTGRES_MIN_CONN" env-default:"0"`
	MaxConn         int           `yaml:"max_conn" env:"NOTES_POSTGRES_MAX_CONN" env-default:"5"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"NOTES_POSTGRES_CONNECT_TIMEOUT" env-default:"30s"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"NOTES_POSTGRES_MAX_CONN_IDLE_TIME" env-default:"10s"`
	MigrationsDir   string        `yaml:"migrations_dir" env:"NOTES_POSTGRES_MIGRATIONS_DIR" env-default:"migrations/notes"`
}

// GetDSN возвращает строку подключения к Postgres.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		p.Host, p.Port, p.User, p.Password, p.Database)
}

// GetConnectionURL возвращает URL-строку подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

// PoolOptions возвращает ограничения пула соединений.
func (p *PostgresConfig) PoolOptions() postgres.PoolOptions {
	return postgres.PoolOptions{
		MinConn:         p.MinConn,
		MaxConn:         p.MaxConn,
		ConnectTimeout:  p.ConnectTimeout,
		MaxConnIdleTime: p.MaxConnIdleTime,
	}
}
