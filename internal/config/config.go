package config

import (
	"fmt"
)

type Config struct {
	ServerAddr     string
	DatabaseDSN    string
	AllowedOrigins []string
	OllamaURL      string
	OllamaModel    string
}

func NewConfig(serverAddr, databaseDSN, ollamaURL, ollamaModel string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if ollamaURL == "" {
		return nil, fmt.Errorf("ollama URL cannot be empty")
	}
	if ollamaModel == "" {
		return nil, fmt.Errorf("ollama model cannot be empty")
	}

	return &Config{
		ServerAddr:     serverAddr,
		DatabaseDSN:    databaseDSN,
		AllowedOrigins: allowedOrigins,
		OllamaURL:      ollamaURL,
		OllamaModel:    ollamaModel,
	}, nil
}
