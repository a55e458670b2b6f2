package database

import (
	"context"

	"github.com/thiagoricci/Rewlio/internal/config"
	"github.com/thiagoricci/Rewlio/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	dbCfg := mysql.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
	}

	return mysql.NewConnection(context.Background(), dbCfg, logger)
}
