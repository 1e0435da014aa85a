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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVaultStageMonotonic(t *testing.T) {
	stages := []VaultStage{
		VaultStageDraft,
		VaultStageContribution,
		VaultStageAcquire,
		VaultStageLocked,
		VaultStageTerminated,
	}
	for i, from := range stages {
		for j, to := range stages {
			expected := j > i
			assert.Equal(
				t,
				expected,
				from.CanAdvanceTo(to),
				"stage %s -> %s", from, to,
			)
		}
	}
}

func TestVaultStageForwardSkip(t *testing.T) {
	// Failed vaults can go straight to terminated from any earlier stage
	assert.True(t, VaultStageDraft.CanAdvanceTo(VaultStageTerminated))
	assert.True(t, VaultStageContribution.CanAdvanceTo(VaultStageTerminated))
}

func TestVaultStageUnknown(t *testing.T) {
	assert.False(t, VaultStage("archived").Valid())
	assert.False(t, VaultStage("archived").CanAdvanceTo(VaultStageLocked))
	assert.False(t, VaultStageDraft.CanAdvanceTo(VaultStage("archived")))
}
