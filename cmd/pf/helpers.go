package main

import (
	"fmt"

	"github.com/procureflow/procureflow/internal/config"
	"github.com/procureflow/procureflow/internal/db"
	"gorm.io/gorm"
)

const defaultConfigPath = "procureflow.yaml"

// connectFromConfig loads config and opens the database connection.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	return cfg, gormDB, nil
}
