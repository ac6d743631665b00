package kvstore

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Record is one persisted key-value pair.
type Record struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value;not null"`
}

func (Record) TableName() string {
	return "kv_records"
}

// Gorm persists records through a single table, on sqlite (the local file
// analog of browser storage) or postgres when a DSN is configured.
type Gorm struct {
	DB *gorm.DB
}

func OpenSQLite(path string) (*Gorm, error) {
	return open(sqlite.Open(path))
}

func OpenPostgres(dsn string) (*Gorm, error) {
	return open(postgres.Open(dsn))
}

func open(dialector gorm.Dialector) (*Gorm, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("kvstore: open: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("kvstore: migrate: %w", err)
	}
	return &Gorm{DB: db}, nil
}

func (g *Gorm) Get(key string) (string, bool, error) {
	var rec Record
	err := g.DB.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Value, true, nil
}

func (g *Gorm) Set(key, value string) error {
	return g.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Record{Key: key, Value: value}).Error
}

func (g *Gorm) Delete(key string) error {
	return g.DB.Delete(&Record{}, "key = ?", key).Error
}
