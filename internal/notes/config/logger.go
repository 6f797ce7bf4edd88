package config

import (
	"strings"

	"notesapp/pkg/logger"
)

// LoggingConfig задает уровень и режим логов сервиса заметок.
type LoggingConfig struct {
	Level string `yaml:"level" env:"NOTES_LOGGER_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Mode  string `yaml:"mode" env:"NOTES_LOGGER_MODE" env-default:"development" env-description:"development or production"`
}

// GetEnvironment переводит режим в окружение логгера. Любое значение,
// кроме production (без учета регистра), дает development.
func (l *LoggingConfig) GetEnvironment() logger.Environment {
	if strings.EqualFold(strings.TrimSpace(l.Mode), string(logger.Production)) {
		return logger.Production
	}
	return logger.Development
}
