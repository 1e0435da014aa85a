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

package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemSettingsRowID is the primary key of the singleton settings row
const SystemSettingsRowID = 1

// SystemSettings is the singleton mutable document holding protocol-wide
// tunables. Writers merge key-wise; readers ignore unknown keys.
type SystemSettings struct {
	ID        uint `gorm:"primarykey"`
	Data      datatypes.JSONMap
	UpdatedAt time.Time
}

// TableName returns the table name
func (SystemSettings) TableName() string {
	return "system_settings"
}
