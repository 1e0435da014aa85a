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

package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/database/types"
)

// Audit journal key prefixes. Records under these prefixes are immutable
// once written.
const (
	proposalSnapshotKeyPrefix = "proposal/"
	voteReceiptKeyPrefix      = "vote/"
)

// VoteReceipt is the journal record written alongside each accepted vote
type VoteReceipt struct {
	ProposalID   uuid.UUID `json:"proposalId"`
	VoterID      string    `json:"voterId"`
	VoteOptionID string    `json:"voteOptionId"`
	CastAt       time.Time `json:"castAt"`
}

func proposalSnapshotKey(proposalID uuid.UUID) []byte {
	return []byte(proposalSnapshotKeyPrefix + proposalID.String())
}

func voteReceiptKey(proposalID uuid.UUID, voterID string) []byte {
	return []byte(
		fmt.Sprintf(
			"%s%s/%s",
			voteReceiptKeyPrefix,
			proposalID.String(),
			voterID,
		),
	)
}

// SnapshotProposal journals the proposal payload exactly as accepted. The
// snapshot is written in the same transaction that creates the proposal row,
// so the journal never records a proposal the metadata store doesn't have.
func (d *Database) SnapshotProposal(
	proposal *models.Proposal,
	txn *Txn,
) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	val, err := json.Marshal(proposal)
	if err != nil {
		return fmt.Errorf("marshal proposal snapshot: %w", err)
	}
	return d.Blob().Set(txn.Blob(), proposalSnapshotKey(proposal.ID), val)
}

// GetProposalSnapshot retrieves the journaled payload for a proposal.
// Returns nil if the proposal was never journaled.
func (d *Database) GetProposalSnapshot(
	proposalID uuid.UUID,
	txn *Txn,
) (*models.Proposal, error) {
	ownTxn := txn == nil
	if ownTxn {
		txn = NewBlobOnlyTxn(d, false)
		defer txn.Release()
	}
	val, err := d.Blob().Get(txn.Blob(), proposalSnapshotKey(proposalID))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var proposal models.Proposal
	if err := json.Unmarshal(val, &proposal); err != nil {
		return nil, fmt.Errorf("unmarshal proposal snapshot: %w", err)
	}
	return &proposal, nil
}

// RecordVoteReceipt journals an accepted vote
func (d *Database) RecordVoteReceipt(
	receipt *VoteReceipt,
	txn *Txn,
) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	val, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal vote receipt: %w", err)
	}
	return d.Blob().Set(
		txn.Blob(),
		voteReceiptKey(receipt.ProposalID, receipt.VoterID),
		val,
	)
}

// GetVoteReceipts retrieves all journaled receipts for a proposal
func (d *Database) GetVoteReceipts(
	proposalID uuid.UUID,
	txn *Txn,
) ([]*VoteReceipt, error) {
	ownTxn := txn == nil
	if ownTxn {
		txn = NewBlobOnlyTxn(d, false)
		defer txn.Release()
	}
	prefix := []byte(voteReceiptKeyPrefix + proposalID.String() + "/")
	iter := d.Blob().NewIterator(txn.Blob(), types.BlobIteratorOptions{
		Prefix: prefix,
	})
	defer iter.Close()
	var receipts []*VoteReceipt
	for iter.Rewind(); iter.Valid(); iter.Next() {
		val, err := iter.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var receipt VoteReceipt
		if err := json.Unmarshal(val, &receipt); err != nil {
			return nil, fmt.Errorf("unmarshal vote receipt: %w", err)
		}
		receipts = append(receipts, &receipt)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return receipts, nil
}
