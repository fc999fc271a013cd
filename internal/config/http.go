package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"TASKER_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"TASKER_HTTP_PORT" env-default:"3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"TASKER_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"TASKER_HTTP_WRITE_TIMEOUT" env-default:"10s"`
	// BodyLimit чуть выше лимита загружаемого файла, чтобы решение о
	// слишком большом файле принимала проверка размера в обработчике.
	BodyLimit int `yaml:"body_limit" env:"TASKER_HTTP_BODY_LIMIT" env-default:"1100000"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
