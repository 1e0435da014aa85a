// Copyright 2026 Vaultforge Labs
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

package state

import (
	"encoding/json"

	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	"gorm.io/datatypes"
)

// Governance fee setting keys, one per proposal type, in lovelace
const (
	SettingGovernanceFeeStaking           = "governance_fee_staking"
	SettingGovernanceFeeDistribution      = "governance_fee_distribution"
	SettingGovernanceFeeTermination       = "governance_fee_termination"
	SettingGovernanceFeeBurning           = "governance_fee_burning"
	SettingGovernanceFeeMarketplaceAction = "governance_fee_marketplace_action"
	SettingGovernanceFeeExpansion         = "governance_fee_expansion"
	SettingGovernanceFeeVoting            = "governance_fee_voting"
)

// DefaultSettings seeds the settings singleton at bootstrap
var DefaultSettings = map[string]any{
	SettingGovernanceFeeStaking:           int64(5_000_000),
	SettingGovernanceFeeDistribution:      int64(5_000_000),
	SettingGovernanceFeeTermination:       int64(10_000_000),
	SettingGovernanceFeeBurning:           int64(3_000_000),
	SettingGovernanceFeeMarketplaceAction: int64(5_000_000),
	SettingGovernanceFeeExpansion:         int64(10_000_000),
	SettingGovernanceFeeVoting:            int64(0),
}

// seedDefaultSettings creates the settings singleton on first start. An
// existing document is left alone.
func (vs *VaultState) seedDefaultSettings() error {
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		settings, err := vs.db.Metadata().GetSystemSettings(txn.Metadata())
		if err != nil {
			return err
		}
		if settings != nil {
			return nil
		}
		data := make(datatypes.JSONMap, len(DefaultSettings))
		for key, value := range DefaultSettings {
			data[key] = value
		}
		return vs.db.Metadata().SetSystemSettings(&models.SystemSettings{
			Data: data,
		}, txn.Metadata())
	})
}

// GetSetting reads one key from the settings document. Unknown keys read
// back as the caller-supplied default.
func (vs *VaultState) GetSetting(key string, def any) (any, error) {
	settings, err := vs.db.Metadata().GetSystemSettings(nil)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return def, nil
	}
	value, ok := settings.Data[key]
	if !ok {
		return def, nil
	}
	return value, nil
}

// GetSettingInt64 reads one key as an integer, coercing the numeric shapes
// a JSON document round-trip produces
func (vs *VaultState) GetSettingInt64(key string, def int64) (int64, error) {
	raw, err := vs.GetSetting(key, def)
	if err != nil {
		return def, err
	}
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return def, nil
		}
		return n, nil
	default:
		return def, nil
	}
}

// SetSetting merges one key into the settings document. The merge is
// key-wise: other keys are never touched and the document is never replaced
// wholesale.
func (vs *VaultState) SetSetting(key string, value any) error {
	err := vs.mergeSetting(key, value, false)
	vs.metrics.observe("setting_set", err)
	return err
}

// DeleteSetting removes one key from the settings document. Deleting an
// absent key is a no-op.
func (vs *VaultState) DeleteSetting(key string) error {
	err := vs.mergeSetting(key, nil, true)
	vs.metrics.observe("setting_delete", err)
	return err
}

func (vs *VaultState) mergeSetting(key string, value any, remove bool) error {
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		settings, err := vs.db.Metadata().GetSystemSettings(txn.Metadata())
		if err != nil {
			return err
		}
		if settings == nil {
			settings = &models.SystemSettings{
				Data: make(datatypes.JSONMap),
			}
		}
		if settings.Data == nil {
			settings.Data = make(datatypes.JSONMap)
		}
		if remove {
			delete(settings.Data, key)
		} else {
			settings.Data[key] = value
		}
		return vs.db.Metadata().SetSystemSettings(settings, txn.Metadata())
	})
}
