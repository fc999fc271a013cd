package config

import "time"

// JWTConfig содержит настройки для токенов сессий.
type JWTConfig struct {
	SecretKey  string `yaml:"secret_key" env:"TASKER_JWT_SECRET_KEY" env-default:"super-secret-key-change-me-in-production"`
	SessionTTL string `yaml:"session_ttl" env:"TASKER_JWT_SESSION_TTL" env-default:"720h"`
	BCryptCost int    `yaml:"bcrypt_cost" env:"TASKER_BCRYPT_COST" env-default:"10"`
}

// GetSessionTTL возвращает продолжительность времени жизни токена сессии.
func (c *JWTConfig) GetSessionTTL() time.Duration {
	duration, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 720 * time.Hour
	}
	return duration
}
