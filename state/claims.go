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
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vaultforge/vaultd/database"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
	"github.com/vaultforge/vaultd/event"
)

// CreateClaim records a new claim. Amount and multiplier are set at
// creation; legacy claims carry the amount in metadata instead and are
// backfilled by normalization.
func (vs *VaultState) CreateClaim(claim *models.Claim) error {
	err := vs.createClaim(claim)
	vs.metrics.observe("claim_create", err)
	return err
}

func (vs *VaultState) createClaim(claim *models.Claim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	return vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		return translateStoreError(
			vs.db.Metadata().SetClaim(claim, txn.Metadata()),
		)
	})
}

// GetClaim retrieves a claim by id
func (vs *VaultState) GetClaim(claimID uuid.UUID) (*models.Claim, error) {
	claim, err := vs.db.Metadata().GetClaim(claimID, nil)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, models.ErrClaimNotFound
	}
	return claim, nil
}

// GetClaims retrieves a page of claims ordered by creation time
func (vs *VaultState) GetClaims(
	limit int,
	offset int,
) ([]*models.Claim, error) {
	return vs.db.Metadata().GetClaims(limit, offset, nil)
}

// claimAmountToLovelace applies the normalization heuristic: a value at or
// above one million is taken as already expressed in lovelace and truncated
// to an integer; anything below is taken as ADA and scaled by one million,
// rounded down. The boundary is ambiguous for small lovelace amounts and is
// kept exactly as-is for compatibility with previously migrated data.
func claimAmountToLovelace(amount decimal.Decimal) int64 {
	threshold := decimal.NewFromInt(types.LovelacePerAda)
	if amount.GreaterThanOrEqual(threshold) {
		return amount.IntPart()
	}
	return amount.Mul(threshold).IntPart()
}

// parseClaimAmount accepts the value shapes adaAmount has been stored with
func parseClaimAmount(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	default:
		return decimal.Decimal{}, fmt.Errorf(
			"unsupported amount type %T",
			raw,
		)
	}
}

// NormalizeClaim folds a claim's metadata adaAmount into the lovelace
// column and removes the redundant key. Claims without the metadata key are
// already normalized and are left untouched, which makes the operation
// idempotent. Returns true when the claim was changed.
func (vs *VaultState) NormalizeClaim(claimID uuid.UUID) (bool, error) {
	changed, err := vs.normalizeClaim(claimID)
	vs.metrics.observe("claim_normalize", err)
	return changed, err
}

func (vs *VaultState) normalizeClaim(claimID uuid.UUID) (bool, error) {
	var changed bool
	var vaultID uuid.UUID
	var lovelace int64
	err := vs.db.Transaction(true).Do(func(txn *database.Txn) error {
		claim, err := vs.db.Metadata().GetClaim(claimID, txn.Metadata())
		if err != nil {
			return err
		}
		if claim == nil {
			return models.ErrClaimNotFound
		}
		raw, ok := claim.Metadata[models.ClaimMetadataAdaAmountKey]
		if !ok {
			// Already normalized
			return nil
		}
		amount, err := parseClaimAmount(raw)
		if err != nil {
			return fmt.Errorf(
				"claim %s: bad %s value: %w",
				claimID,
				models.ClaimMetadataAdaAmountKey,
				err,
			)
		}
		lovelace = claimAmountToLovelace(amount)
		claim.LovelaceAmount = &lovelace
		delete(claim.Metadata, models.ClaimMetadataAdaAmountKey)
		if err := vs.db.Metadata().SetClaim(
			claim,
			txn.Metadata(),
		); err != nil {
			return translateStoreError(err)
		}
		changed = true
		vaultID = claim.VaultID
		return nil
	})
	if err != nil {
		return false, err
	}
	if changed {
		vs.metrics.claimsNormalized.Inc()
		vs.publish(event.ClaimNormalizedEventType, event.ClaimNormalizedEvent{
			ClaimID:   claimID,
			VaultID:   vaultID,
			Lovelace:  lovelace,
			Timestamp: time.Now(),
		})
	}
	return changed, nil
}

// NormalizeAllClaims walks every claim in batches and normalizes the ones
// still carrying an embedded amount. Each claim is its own transaction so a
// bad record doesn't roll back the batch. Returns the number of claims
// changed.
func (vs *VaultState) NormalizeAllClaims(batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	var normalized int
	for offset := 0; ; offset += batchSize {
		claims, err := vs.db.Metadata().GetClaims(batchSize, offset, nil)
		if err != nil {
			return normalized, err
		}
		if len(claims) == 0 {
			break
		}
		for _, claim := range claims {
			changed, err := vs.NormalizeClaim(claim.ID)
			if err != nil {
				vs.logger().Warn(
					"claim normalization failed",
					"claim_id", claim.ID,
					"error", err,
					"component", "state",
				)
				continue
			}
			if changed {
				normalized++
			}
		}
		if len(claims) < batchSize {
			break
		}
	}
	return normalized, nil
}
