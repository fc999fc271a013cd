package config

// UploadConfig содержит настройки загрузки документов.
type UploadConfig struct {
	Dir string `yaml:"dir" env:"TASKER_UPLOAD_DIR" env-default:"uploads"`
}
