package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Storage    StorageConfig
	Redis      RedisConfig
	LLM        LLMConfig
	Evaluation EvaluationConfig
	Session    SessionConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// StorageConfig selects the key-value backend behind the persistence gateway.
// Driver is "memory" or "sqlite".
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LLMConfig configures the model used by both AI gateways.
// Provider is one of "gemini", "ollama", "openai". An empty APIKey for a
// hosted provider leaves the AI endpoints unconfigured.
type LLMConfig struct {
	Provider  string
	APIKey    string
	Model     string
	ServerURL string
	Timeout   time.Duration
}

type EvaluationConfig struct {
	Timeout  time.Duration
	CacheTTL time.Duration
}

type SessionConfig struct {
	MaxQuestions       int
	MCQSeconds         int
	ShortAnswerSeconds int
	ResultTTL          time.Duration
	IdleTimeout        time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 20)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.body_limit", 20*1024*1024)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "quizflare.db")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", 60)
	v.SetDefault("evaluation.timeout", 15)
	v.SetDefault("evaluation.cache_ttl", 3600)
	v.SetDefault("session.max_questions", 20)
	v.SetDefault("session.mcq_seconds", 10)
	v.SetDefault("session.short_answer_seconds", 60)
	v.SetDefault("session.result_ttl", 3600)
	v.SetDefault("session.idle_timeout", 900)
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults plus environment are enough to run locally.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  time.Duration(v.GetInt("server.read_timeout")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("server.write_timeout")) * time.Second,
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Storage: StorageConfig{
			Driver:     v.GetString("storage.driver"),
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Provider:  v.GetString("llm.provider"),
			APIKey:    v.GetString("llm.api_key"),
			Model:     v.GetString("llm.model"),
			ServerURL: v.GetString("llm.server_url"),
			Timeout:   time.Duration(v.GetInt("llm.timeout")) * time.Second,
		},
		Evaluation: EvaluationConfig{
			Timeout:  time.Duration(v.GetInt("evaluation.timeout")) * time.Second,
			CacheTTL: time.Duration(v.GetInt("evaluation.cache_ttl")) * time.Second,
		},
		Session: SessionConfig{
			MaxQuestions:       v.GetInt("session.max_questions"),
			MCQSeconds:         v.GetInt("session.mcq_seconds"),
			ShortAnswerSeconds: v.GetInt("session.short_answer_seconds"),
			ResultTTL:          time.Duration(v.GetInt("session.result_ttl")) * time.Second,
			IdleTimeout:        time.Duration(v.GetInt("session.idle_timeout")) * time.Second,
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = v.GetInt("SERVER_PORT")
	}
	if env := os.Getenv("ENV"); env != "" {
		config.Logger.Env = env
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logger.Level = level
	}
	if driver := os.Getenv("STORAGE_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		config.Storage.SQLitePath = path
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.ServerURL = llmServer
	}
	// API_KEY is the credential name the AI endpoints have always read.
	if apiKey := os.Getenv("API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}

	return config
}

// HasModelCredential reports whether the configured provider can be reached.
// Ollama runs locally and needs no key.
func (c LLMConfig) HasModelCredential() bool {
	if c.Provider == "ollama" {
		return c.ServerURL != ""
	}
	return c.APIKey != ""
}
