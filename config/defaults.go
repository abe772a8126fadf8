// =============================================================================
// 📦 AgentGraph 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Ollama:    DefaultOllamaConfig(),
		Store:     DefaultStoreConfig(),
		Cache:     DefaultCacheConfig(),
		RateLimit: DefaultRateLimitConfig(),
		Log:       DefaultLogConfig(),
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:           8000,
		MetricsPort:        9090,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       5 * time.Minute,
		ShutdownTimeout:    30 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}
}

// DefaultOllamaConfig 返回默认 LLM 后端配置
func DefaultOllamaConfig() OllamaConfig {
	return OllamaConfig{
		Host:         "http://localhost:11434",
		Timeout:      60 * time.Second,
		DefaultModel: "mistral",
		Models:       []string{"mistral", "llama3", "qwen2"},
	}
}

// DefaultStoreConfig 返回默认存储配置
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Type:          "memory",
		SQLitePath:    "./data/agentgraph.db",
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "agentgraph",
	}
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:    false,
		Addr:       "localhost:6379",
		Password:   "",
		DB:         0,
		DefaultTTL: 5 * time.Minute,
		KeyPrefix:  "agentgraph:",
	}
}

// DefaultRateLimitConfig 返回默认限流配置
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: true,
		RPS:     100,
		Burst:   200,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}
