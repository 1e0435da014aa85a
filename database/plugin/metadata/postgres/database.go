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

package postgres

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vaultforge/vaultd/database/plugin/metadata/internal/gormstore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MetadataStorePostgres is the PostgreSQL-backed metadata store. Unlike the
// sqlite store there is no vacuum timer: autovacuum is the server's job.
type MetadataStorePostgres struct {
	*gormstore.Store
	logger *slog.Logger
}

// New creates a PostgreSQL metadata store from connection settings
func New(
	connOpts ConnectionOptions,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*MetadataStorePostgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		connOpts.Host,
		connOpts.Port,
		connOpts.User,
		connOpts.Password,
		connOpts.Database,
		connOpts.SslMode,
	)
	metadataDb, err := gorm.Open(
		postgres.Open(dsn),
		&gorm.Config{
			Logger:                 gormlogger.Discard,
			SkipDefaultTransaction: true,
			TranslateError:         true,
		},
	)
	if err != nil {
		return nil, err
	}
	store, err := gormstore.New(metadataDb, logger, promRegistry)
	if err != nil {
		return nil, err
	}
	db := &MetadataStorePostgres{
		Store:  store,
		logger: store.Logger(),
	}
	if err := db.MigrateAll(); err != nil {
		return db, err
	}
	return db, nil
}

// Start implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Start() error {
	// Store is already started in New(), so this is a no-op
	return nil
}

// Stop implements the plugin.Plugin interface
func (d *MetadataStorePostgres) Stop() error {
	return d.Close()
}

// Close shuts down the database connection
func (d *MetadataStorePostgres) Close() error {
	db, err := d.DB().DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return db.Close()
}
