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
	"errors"
	"fmt"
	"strings"

	"github.com/vaultforge/vaultd/database/models"
	"gorm.io/gorm"
)

// Validation failures surfaced synchronously to the caller. None are
// retried; the store arbitrates races and its constraint errors are
// translated here.
var (
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrImmutableField        = errors.New("immutable field")
	ErrInvalidPayloadForType = errors.New("invalid payload for proposal type")
	ErrUnknownVoteOption     = errors.New("unknown vote option")
	ErrInvalidVoteValue      = errors.New("invalid vote value")
	ErrDuplicateVote         = errors.New("duplicate vote")
	ErrProposalResolved      = errors.New("proposal already resolved")
	ErrConstraintViolation   = errors.New("constraint violation")
)

// PayloadError reports the exact fields that make a proposal payload illegal
// for its type. Unwraps to ErrInvalidPayloadForType.
type PayloadError struct {
	ProposalType models.ProposalType
	Missing      []string
	Forbidden    []string
}

func (e *PayloadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(
		&sb,
		"invalid payload for proposal type %q",
		e.ProposalType,
	)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&sb, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Forbidden) > 0 {
		fmt.Fprintf(&sb, ": forbidden %s", strings.Join(e.Forbidden, ", "))
	}
	return sb.String()
}

func (e *PayloadError) Unwrap() error {
	return ErrInvalidPayloadForType
}

// translateStoreError maps driver-level constraint failures onto the local
// taxonomy. GORM's TranslateError config normalizes the driver errors first.
func translateStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return err
}
