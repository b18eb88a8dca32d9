// Package config holds application configuration assembled from defaults,
// an optional YAML file, and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	OpenAI   OpenAI   `mapstructure:"openai"`
	NewsAPI  NewsAPI  `mapstructure:"newsapi"`
	Qdrant   Qdrant   `mapstructure:"qdrant"`
	Pipeline Pipeline `mapstructure:"pipeline"`
	Scraper  Scraper  `mapstructure:"scraper"`
}

// OpenAI holds credentials and model selection for embeddings and report
// generation.
type OpenAI struct {
	APIKey    string `mapstructure:"api_key"`
	ChatModel string `mapstructure:"chat_model"`
}

// NewsAPI holds the news collection settings.
type NewsAPI struct {
	APIKey     string `mapstructure:"api_key"`
	MaxResults int    `mapstructure:"max_results"`
}

// Qdrant holds the vector store connection settings. Port is the gRPC
// port.
type Qdrant struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
}

// Pipeline holds chunking, retrieval, and report window settings.
type Pipeline struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	RetrievalK   int `mapstructure:"retrieval_k"`
	ContextSize  int `mapstructure:"context_size"`
	DaysBack     int `mapstructure:"days_back"`
}

// Scraper holds website collection settings. An empty UserAgent selects
// the collector's default.
type Scraper struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		OpenAI: OpenAI{
			ChatModel: "gpt-4o-mini",
		},
		NewsAPI: NewsAPI{
			MaxResults: 20,
		},
		Qdrant: Qdrant{
			Host:       "localhost",
			Port:       6334,
			Collection: "competitor_news",
		},
		Pipeline: Pipeline{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			RetrievalK:   15,
			ContextSize:  7,
			DaysBack:     7,
		},
		Scraper: Scraper{
			Timeout: 30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, an optional config file,
// and environment variables, in increasing precedence. An empty cfgFile
// searches ./config and the working directory for config.yaml; a missing
// file there is not an error.
func Load(cfgFile string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	// RIVALSCOPE_QDRANT_HOST -> qdrant.host
	v.SetEnvPrefix("RIVALSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Nested keys need explicit binds. The two API keys also accept their
	// providers' conventional names.
	v.BindEnv("openai.api_key", "RIVALSCOPE_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("openai.chat_model", "RIVALSCOPE_OPENAI_CHAT_MODEL")
	v.BindEnv("newsapi.api_key", "RIVALSCOPE_NEWSAPI_API_KEY", "NEWS_API_KEY")
	v.BindEnv("newsapi.max_results", "RIVALSCOPE_NEWSAPI_MAX_RESULTS")
	v.BindEnv("qdrant.host", "RIVALSCOPE_QDRANT_HOST")
	v.BindEnv("qdrant.port", "RIVALSCOPE_QDRANT_PORT")
	v.BindEnv("qdrant.collection", "RIVALSCOPE_QDRANT_COLLECTION")
	v.BindEnv("pipeline.chunk_size", "RIVALSCOPE_PIPELINE_CHUNK_SIZE")
	v.BindEnv("pipeline.chunk_overlap", "RIVALSCOPE_PIPELINE_CHUNK_OVERLAP")
	v.BindEnv("pipeline.retrieval_k", "RIVALSCOPE_PIPELINE_RETRIEVAL_K")
	v.BindEnv("pipeline.context_size", "RIVALSCOPE_PIPELINE_CONTEXT_SIZE")
	v.BindEnv("pipeline.days_back", "RIVALSCOPE_PIPELINE_DAYS_BACK")
	v.BindEnv("scraper.user_agent", "RIVALSCOPE_SCRAPER_USER_AGENT")
	v.BindEnv("scraper.timeout", "RIVALSCOPE_SCRAPER_TIMEOUT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
