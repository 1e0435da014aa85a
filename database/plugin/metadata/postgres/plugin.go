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
	"sync"

	"github.com/vaultforge/vaultd/database/plugin"
)

// ConnectionOptions collects the settings used to build the postgres DSN
type ConnectionOptions struct {
	Host     string
	User     string
	Password string
	Database string
	SslMode  string
	Port     uint64
}

var (
	cmdlineOptions  ConnectionOptions
	cmdlineOptMutex sync.RWMutex
)

// initCmdlineOptions sets default values for cmdlineOptions
func initCmdlineOptions() {
	cmdlineOptMutex.Lock()
	defer cmdlineOptMutex.Unlock()
	cmdlineOptions = ConnectionOptions{
		Host:     "localhost",
		Port:     5432,
		User:     "vaultd",
		Database: "vaultd",
		SslMode:  "prefer",
	}
}

// Register plugin
func init() {
	initCmdlineOptions()
	plugin.Register(
		plugin.PluginEntry{
			Type:               plugin.PluginTypeMetadata,
			Name:               "postgres",
			Description:        "PostgreSQL relational database",
			NewFromOptionsFunc: NewFromCmdlineOptions,
			Options: []plugin.PluginOption{
				{
					Name:         "host",
					Type:         plugin.PluginOptionTypeString,
					Description:  "PostgreSQL server hostname",
					DefaultValue: "localhost",
					Dest:         &(cmdlineOptions.Host),
				},
				{
					Name:         "port",
					Type:         plugin.PluginOptionTypeUint,
					Description:  "PostgreSQL server port",
					DefaultValue: uint64(5432),
					Dest:         &(cmdlineOptions.Port),
				},
				{
					Name:         "user",
					Type:         plugin.PluginOptionTypeString,
					Description:  "PostgreSQL user",
					DefaultValue: "vaultd",
					Dest:         &(cmdlineOptions.User),
				},
				{
					Name:         "password",
					Type:         plugin.PluginOptionTypeString,
					Description:  "PostgreSQL password",
					DefaultValue: "",
					Dest:         &(cmdlineOptions.Password),
				},
				{
					Name:         "database",
					Type:         plugin.PluginOptionTypeString,
					Description:  "PostgreSQL database name",
					DefaultValue: "vaultd",
					Dest:         &(cmdlineOptions.Database),
				},
				{
					Name:         "sslmode",
					Type:         plugin.PluginOptionTypeString,
					Description:  "PostgreSQL TLS mode",
					DefaultValue: "prefer",
					Dest:         &(cmdlineOptions.SslMode),
				},
			},
		},
	)
}

func NewFromCmdlineOptions() plugin.Plugin {
	cmdlineOptMutex.RLock()
	connOpts := cmdlineOptions
	cmdlineOptMutex.RUnlock()

	p, err := New(connOpts, nil, nil)
	if err != nil {
		// Return a plugin that defers the error to Start()
		return plugin.NewErrorPlugin(err)
	}
	return p
}
