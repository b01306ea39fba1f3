package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/camden-git/gallerymanifest/models"
)

const defaultHistoryLimit = 20

// Ledger is the sqlite-backed history of build runs.
type Ledger struct {
	db *gorm.DB
}

// OpenLedger opens (creating if needed) the ledger database at path.
func OpenLedger(path string, log *zap.Logger) (*Ledger, error) {
	db, err := InitGormDB(path, log)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrateModels(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return &Ledger{db: db}, nil
}

// RecordBuildRun inserts run and sets its ID.
func (l *Ledger) RecordBuildRun(run *models.BuildRun) error {
	if err := l.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to insert build run: %w", err)
	}
	return nil
}

// RecentBuildRuns returns up to limit runs, newest first.
func (l *Ledger) RecentBuildRuns(limit int) ([]models.BuildRun, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	var runs []models.BuildRun
	err := l.db.Order("started_at desc").Order("id desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list build runs: %w", err)
	}
	return runs, nil
}

func (l *Ledger) Close() error {
	return closeDB(l.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
