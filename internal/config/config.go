package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Extraction ExtractionConfig
	OpenAI     OpenAIConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// ExtractionConfig содержит настройки конвейера загрузки PDF
type ExtractionConfig struct {
	// ScriptPath: путь к внешнему скрипту извлечения текста и генерации вопросов
	ScriptPath string `mapstructure:"script_path"`

	// PythonCommand: команда интерпретатора ("python3" по умолчанию)
	PythonCommand string `mapstructure:"python_command"`

	// TimeoutSec: жесткий лимит времени работы скрипта в секундах
	TimeoutSec int `mapstructure:"timeout_sec"`

	// UploadsDir: каталог временного хранения загруженных PDF
	UploadsDir string `mapstructure:"uploads_dir"`

	// MaxFileSizeMB: предельный размер загружаемого файла
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// OpenAIConfig содержит настройки внешнего генеративного сервиса объяснений
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // отдельный экземпляр Viper, чтобы избежать глобального состояния

	// Значения по умолчанию
	vip.SetDefault("server.port", "8000")
	vip.SetDefault("server.readTimeout", 15)
	vip.SetDefault("server.writeTimeout", 150)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expirationHrs", 1)
	vip.SetDefault("extraction.script_path", "scripts/extract_pdf.py")
	vip.SetDefault("extraction.python_command", "python3")
	vip.SetDefault("extraction.timeout_sec", 120)
	vip.SetDefault("extraction.uploads_dir", "uploads")
	vip.SetDefault("extraction.max_file_size_mb", 10)
	vip.SetDefault("openai.model", "gpt-4o-mini")

	// Привязываем переменные окружения явно
	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("extraction.script_path", "EXTRACTION_SCRIPT_PATH")
	vip.BindEnv("extraction.python_command", "EXTRACTION_PYTHON_COMMAND")
	vip.BindEnv("extraction.timeout_sec", "EXTRACTION_TIMEOUT_SEC")
	vip.BindEnv("extraction.uploads_dir", "EXTRACTION_UPLOADS_DIR")
	vip.BindEnv("extraction.max_file_size_mb", "EXTRACTION_MAX_FILE_SIZE_MB")

	vip.BindEnv("openai.api_key", "OPENAI_API_KEY")
	vip.BindEnv("openai.model", "OPENAI_MODEL")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("JWT Expiration Hours: %d", cfg.JWT.ExpirationHrs)
		log.Printf("Extraction Script: %s", cfg.Extraction.ScriptPath)
		log.Printf("OpenAI Key Set: %t", cfg.OpenAI.APIKey != "")
		log.Printf("-----------------------------------------")
	}

	// Отсутствие обязательных параметров хранилища фатально на старте:
	// это единственный класс ошибок, которому позволено ронять процесс.
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}

	return &cfg, nil
}
