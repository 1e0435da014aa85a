// Copyright 2025 Vaultforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package gormstore holds the driver-independent query implementation shared
// by the sqlite and postgres metadata plugins. Each plugin owns opening and
// maintaining its database handle; everything below the handle is identical.
package gormstore

import (
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"
)

// Store implements the metadata store query surface over a gorm handle
type Store struct {
	db           *gorm.DB
	logger       *slog.Logger
	promRegistry prometheus.Registerer
}

// New wraps an opened gorm handle. Tracing for GORM is configured here so the
// plugins don't each have to remember it.
func New(
	db *gorm.DB,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*Store, error) {
	if logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	s := &Store{
		db:           db,
		logger:       logger,
		promRegistry: promRegistry,
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}
	return s, nil
}

// DB returns the underlying GORM database handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Logger returns the logger instance
func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// AutoMigrate creates or updates database schema for the given models
func (s *Store) AutoMigrate(dst ...any) error {
	return s.db.AutoMigrate(dst...)
}

// MigrateAll applies schema migrations for all known models
func (s *Store) MigrateAll() error {
	s.logger.Debug("creating commit timestamp table")
	if err := s.db.AutoMigrate(&CommitTimestamp{}); err != nil {
		return err
	}
	for _, model := range models.MigrateModels {
		if err := s.db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// gormTxn wraps a gorm transaction and implements types.Txn
type gormTxn struct {
	store    *Store
	tx       *gorm.DB
	finished bool
}

func (t *gormTxn) Commit() error {
	if t.finished {
		return nil
	}
	if err := t.tx.Commit().Error; err != nil {
		return err
	}
	t.finished = true
	return nil
}

func (t *gormTxn) Rollback() error {
	if t.finished {
		return nil
	}
	if err := t.tx.Rollback().Error; err != nil {
		return err
	}
	t.finished = true
	return nil
}

// Transaction starts a new database transaction
func (s *Store) Transaction() types.Txn {
	return &gormTxn{store: s, tx: s.db.Begin()}
}

// resolveDB returns the gorm handle for the given transaction, or the base
// handle when txn is nil
func (s *Store) resolveDB(txn types.Txn) (*gorm.DB, error) {
	if txn == nil {
		return s.db, nil
	}
	gtxn, ok := txn.(*gormTxn)
	if !ok {
		return nil, types.ErrTxnWrongType
	}
	if gtxn.store != s {
		return nil, errors.New("transaction from different store")
	}
	if gtxn.finished {
		return nil, errors.New("transaction already finished")
	}
	return gtxn.tx, nil
}
