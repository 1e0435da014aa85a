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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota
	PluginTypeMetadata
)

// PluginTypeName returns the human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota
	PluginOptionTypeBool
	PluginOptionTypeUint
)

// PluginOption describes a single configurable option for a plugin. Dest
// points at the variable that holds the option value inside the plugin
// package.
type PluginOption struct {
	Name         string
	Description  string
	Dest         any
	DefaultValue any
	Type         PluginOptionType
	CustomFlag   string
	CustomEnvVar string
}

// PluginEntry is a registration record for a plugin implementation
type PluginEntry struct {
	NewFromOptionsFunc func() Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var pluginEntries []PluginEntry

// Register adds a plugin entry to the global registry. It's called from
// init() in each plugin package.
func Register(entry PluginEntry) {
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugin instantiates the named plugin from the registry, or returns nil
// if not found
func GetPlugin(pluginType PluginType, name string) Plugin {
	for _, entry := range pluginEntries {
		if entry.Type == pluginType && entry.Name == name {
			return entry.NewFromOptionsFunc()
		}
	}
	return nil
}

// GetPlugins returns registry entries for the given plugin type
func GetPlugins(pluginType PluginType) []PluginEntry {
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

func (o *PluginOption) flagName(entry *PluginEntry) string {
	if o.CustomFlag != "" {
		return o.CustomFlag
	}
	return fmt.Sprintf(
		"%s-%s-%s",
		PluginTypeName(entry.Type),
		entry.Name,
		o.Name,
	)
}

func (o *PluginOption) envVarName(entry *PluginEntry) string {
	if o.CustomEnvVar != "" {
		return o.CustomEnvVar
	}
	name := fmt.Sprintf(
		"VAULTD_%s_%s_%s",
		PluginTypeName(entry.Type),
		entry.Name,
		o.Name,
	)
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToUpper(name)
}

// PopulateCmdlineOptions adds a flag for each registered plugin option
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for j := range entry.Options {
			opt := &entry.Options[j]
			flagName := opt.flagName(entry)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				if !ok {
					return fmt.Errorf(
						"option %s: expected *string destination",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(string)
				fs.StringVar(dest, flagName, defVal, opt.Description)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				if !ok {
					return fmt.Errorf(
						"option %s: expected *bool destination",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(bool)
				fs.BoolVar(dest, flagName, defVal, opt.Description)
			case PluginOptionTypeUint:
				dest, ok := opt.Dest.(*uint64)
				if !ok {
					return fmt.Errorf(
						"option %s: expected *uint64 destination",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(uint64)
				fs.Uint64Var(dest, flagName, defVal, opt.Description)
			default:
				return fmt.Errorf(
					"option %s: unknown option type %d",
					flagName,
					opt.Type,
				)
			}
		}
	}
	return nil
}

// ProcessEnvVars applies environment variable overrides for each registered
// plugin option
func ProcessEnvVars() error {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for j := range entry.Options {
			opt := &entry.Options[j]
			envVal, ok := os.LookupEnv(opt.envVarName(entry))
			if !ok {
				continue
			}
			switch opt.Type {
			case PluginOptionTypeString:
				if err := opt.set(envVal); err != nil {
					return err
				}
			case PluginOptionTypeBool:
				boolVal, err := strconv.ParseBool(envVal)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						opt.envVarName(entry),
						err,
					)
				}
				if err := opt.set(boolVal); err != nil {
					return err
				}
			case PluginOptionTypeUint:
				uintVal, err := strconv.ParseUint(envVal, 10, 64)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						opt.envVarName(entry),
						err,
					)
				}
				if err := opt.set(uintVal); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ProcessConfig applies plugin option values from the parsed config file.
// The structure is pluginType -> pluginName -> option -> value.
func ProcessConfig(
	pluginConfig map[string]map[string]map[string]any,
) error {
	for typeName, plugins := range pluginConfig {
		var pluginType PluginType
		switch typeName {
		case "blob":
			pluginType = PluginTypeBlob
		case "metadata":
			pluginType = PluginTypeMetadata
		default:
			return fmt.Errorf("unknown plugin type in config: %s", typeName)
		}
		for pluginName, options := range plugins {
			for optName, optVal := range options {
				if err := SetPluginOption(
					pluginType,
					pluginName,
					optName,
					optVal,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
