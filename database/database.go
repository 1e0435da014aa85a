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

// Package database pairs the relational metadata store with the badger
// audit journal behind a single transactional facade.
package database

import (
	"errors"
	"io"
	"log/slog"

	"github.com/vaultforge/vaultd/database/plugin"
	"github.com/vaultforge/vaultd/database/plugin/blob"
	"github.com/vaultforge/vaultd/database/plugin/metadata"

	// Register plugins
	_ "github.com/vaultforge/vaultd/database/plugin/blob/badger"
)

// Config selects the stores behind the database. Plugin names are resolved
// through the plugin registry; a non-nil store instance takes precedence
// over the corresponding plugin name.
type Config struct {
	Logger         *slog.Logger
	DataDir        string
	BlobPlugin     string
	MetadataPlugin string
	BlobStore      blob.BlobStore
	MetadataStore  metadata.MetadataStore
}

type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	dataDir  string
}

// Blob returns the underlying blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	// Close metadata
	metadataErr := d.Metadata().Close()
	err = errors.Join(err, metadataErr)
	// Close blob
	blobErr := d.Blob().Close()
	err = errors.Join(err, blobErr)
	return err
}

func (d *Database) init() error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	// Check commit timestamp
	if err := d.checkCommitTimestamp(); err != nil {
		return err
	}
	return nil
}

// New creates a new database instance from the given config
func New(cfg *Config) (*Database, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	metadataDb := cfg.MetadataStore
	if metadataDb == nil {
		pluginName := cfg.MetadataPlugin
		if pluginName == "" {
			pluginName = "sqlite"
		}
		if cfg.DataDir != "" {
			if err := plugin.SetPluginOption(
				plugin.PluginTypeMetadata,
				pluginName,
				"data-dir",
				cfg.DataDir,
			); err != nil {
				return nil, err
			}
		}
		var err error
		metadataDb, err = metadata.New(pluginName)
		if err != nil {
			return nil, err
		}
	}
	blobDb := cfg.BlobStore
	if blobDb == nil {
		pluginName := cfg.BlobPlugin
		if pluginName == "" {
			pluginName = "badger"
		}
		if cfg.DataDir != "" {
			if err := plugin.SetPluginOption(
				plugin.PluginTypeBlob,
				pluginName,
				"data-dir",
				cfg.DataDir,
			); err != nil {
				return nil, err
			}
		}
		var err error
		blobDb, err = blob.New(pluginName)
		if err != nil {
			return nil, err
		}
	}
	db := &Database{
		logger:   cfg.Logger,
		blob:     blobDb,
		metadata: metadataDb,
		dataDir:  cfg.DataDir,
	}
	if err := db.init(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	return db, nil
}
