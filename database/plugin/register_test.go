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

package plugin_test

import (
	"testing"

	"github.com/vaultforge/vaultd/database/plugin"
)

// Mock plugin implementation for testing
type mockPlugin struct{}

func (m *mockPlugin) Start() error { return nil }
func (m *mockPlugin) Stop() error  { return nil }

func TestRegister(t *testing.T) {
	pluginName := "test-plugin-" + t.Name()
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})

	// Check that GetPlugin finds it
	p := plugin.GetPlugin(plugin.PluginTypeBlob, pluginName)
	if p == nil {
		t.Error("plugin not found")
	}

	// Check that GetPlugins includes it
	plugins := plugin.GetPlugins(plugin.PluginTypeBlob)
	found := false
	for _, pl := range plugins {
		if pl.Name == pluginName && pl.Type == plugin.PluginTypeBlob {
			found = true
			break
		}
	}
	if !found {
		t.Error("plugin not in GetPlugins list")
	}
}

func TestGetPluginUnknown(t *testing.T) {
	if p := plugin.GetPlugin(plugin.PluginTypeMetadata, "does-not-exist"); p != nil {
		t.Error("expected nil for unknown plugin")
	}
}

func TestSetPluginOption(t *testing.T) {
	pluginName := "test-option-plugin-" + t.Name()
	var dataDir string
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeMetadata,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
		Options: []plugin.PluginOption{
			{
				Name: "data-dir",
				Type: plugin.PluginOptionTypeString,
				Dest: &dataDir,
			},
		},
	})

	if err := plugin.SetPluginOption(plugin.PluginTypeMetadata, pluginName, "data-dir", "/tmp/x"); err != nil {
		t.Fatalf("unexpected error setting data-dir: %v", err)
	}
	if dataDir != "/tmp/x" {
		t.Fatalf("expected /tmp/x, got %q", dataDir)
	}

	// Setting with wrong type should return an error
	if err := plugin.SetPluginOption(plugin.PluginTypeMetadata, pluginName, "data-dir", 123); err == nil {
		t.Fatal("expected type error when setting data-dir with int, got nil")
	}

	// Setting an unknown option is a no-op (non-fatal)
	if err := plugin.SetPluginOption(plugin.PluginTypeMetadata, pluginName, "does-not-exist", "x"); err != nil {
		t.Fatalf("unexpected error when setting unknown option: %v", err)
	}

	// Plugin not found error
	if err := plugin.SetPluginOption(plugin.PluginTypeMetadata, "nonexistent", "data-dir", "/tmp"); err == nil {
		t.Fatal("expected error when setting option for nonexistent plugin, got nil")
	}
}
