// Package db contains the database connection setup
package db

import (
	"fmt"
	"lumina/video-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the database and migrates all tables. A postgres DSN can
// be provided through db.dsn, otherwise a local SQLite file is used
func New() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if dsn := viper.GetString("db.dsn"); dsn != "" {
		db, err = gorm.Open(postgres.Open(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres, %w", err)
		}
	} else {
		db, err = gorm.Open(sqlite.Open("lumina.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
		}
	}

	err = db.AutoMigrate(model.Video{}, model.VideoSegment{}, model.QAHistory{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
