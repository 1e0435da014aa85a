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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/vaultforge/vaultd/database/models"
	"github.com/vaultforge/vaultd/internal/version"
	"github.com/vaultforge/vaultd/state"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a common-format error response.
func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeStateError translates the lifecycle error taxonomy to an HTTP
// status. Validation failures map to 400, missing entities to 404,
// conflicts arbitrated by the store to 409.
func (a *Api) writeStateError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrVaultNotFound),
		errors.Is(err, models.ErrAssetNotFound),
		errors.Is(err, models.ErrProposalNotFound),
		errors.Is(err, models.ErrClaimNotFound):
		status = http.StatusNotFound
	case errors.Is(err, state.ErrInvalidPayloadForType),
		errors.Is(err, state.ErrInvalidVoteValue),
		errors.Is(err, state.ErrUnknownVoteOption):
		status = http.StatusBadRequest
	case errors.Is(err, state.ErrInvalidTransition),
		errors.Is(err, state.ErrImmutableField),
		errors.Is(err, state.ErrDuplicateVote),
		errors.Is(err, state.ErrProposalResolved),
		errors.Is(err, state.ErrConstraintViolation):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func vaultToResponse(vault *models.Vault) VaultResponse {
	return VaultResponse{
		ID:                      vault.ID.String(),
		Name:                    vault.Name,
		Stage:                   string(vault.Stage),
		AcquireMultiplier:       vault.AcquireMultiplier,
		AdaDistribution:         vault.AdaDistribution,
		ApplyParamsResult:       vault.ApplyParamsResult,
		DispatchPreloadedScript: vault.DispatchPreloadedScript,
		CreatedAt:               vault.CreatedAt,
		UpdatedAt:               vault.UpdatedAt,
	}
}

func assetToResponse(asset *models.Asset) AssetResponse {
	resp := AssetResponse{
		ID:        asset.ID.String(),
		VaultID:   asset.VaultID.String(),
		PolicyID:  asset.PolicyID,
		AssetName: asset.AssetName,
		Quantity:  asset.Quantity,
		Status:    string(asset.Status),
		CreatedAt: asset.CreatedAt,
		UpdatedAt: asset.UpdatedAt,
	}
	if asset.OriginType != nil {
		origin := string(*asset.OriginType)
		resp.OriginType = &origin
	}
	return resp
}

func proposalToResponse(proposal *models.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:                   proposal.ID.String(),
		VaultID:              proposal.VaultID.String(),
		Type:                 string(proposal.Type),
		Status:               string(proposal.Status),
		FungibleTokens:       proposal.FungibleTokens,
		NonFungibleTokens:    proposal.NonFungibleTokens,
		DistributionAssets:   proposal.DistributionAssets,
		BurnAssets:           proposal.BurnAssets,
		TerminationReason:    proposal.TerminationReason,
		TerminationDate:      proposal.TerminationDate,
		HasCustomVoteOptions: proposal.HasCustomVoteOptions,
		CreatedAt:            proposal.CreatedAt,
		UpdatedAt:            proposal.UpdatedAt,
	}
}

func claimToResponse(claim *models.Claim) ClaimResponse {
	return ClaimResponse{
		ID:             claim.ID.String(),
		VaultID:        claim.VaultID.String(),
		Claimant:       claim.Claimant,
		LovelaceAmount: claim.LovelaceAmount,
		Multiplier:     claim.Multiplier,
		Metadata:       claim.Metadata,
		CreatedAt:      claim.CreatedAt,
		UpdatedAt:      claim.UpdatedAt,
	}
}

// handleRoot handles GET / and returns API metadata.
func (a *Api) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    "vaultd",
		Version: version.GetVersionString(),
	})
}

// handleHealth handles GET /health.
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleListVaults handles GET /vaults.
func (a *Api) handleListVaults(
	w http.ResponseWriter,
	_ *http.Request,
) {
	vaults, err := a.state.GetVaults()
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	resp := make([]VaultResponse, 0, len(vaults))
	for _, vault := range vaults {
		resp = append(resp, vaultToResponse(vault))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateVault handles POST /vaults.
func (a *Api) handleCreateVault(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateVaultRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	stage := models.VaultStage(req.Stage)
	if req.Stage != "" && stage != models.VaultStageDraft {
		writeError(
			w,
			http.StatusBadRequest,
			"vaults are created in draft stage",
		)
		return
	}
	vault := &models.Vault{
		Name:  req.Name,
		Stage: stage,
	}
	if err := a.state.CreateVault(vault); err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vaultToResponse(vault))
}

// handleGetVault handles GET /vaults/{id}.
func (a *Api) handleGetVault(
	w http.ResponseWriter,
	r *http.Request,
) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	vault, err := a.state.GetVault(vaultID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vaultToResponse(vault))
}

// handleVaultStage handles POST /vaults/{id}/stage.
func (a *Api) handleVaultStage(
	w http.ResponseWriter,
	r *http.Request,
) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	var req VaultStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stage := models.VaultStage(req.Stage)
	if !stage.Valid() {
		writeError(
			w,
			http.StatusBadRequest,
			"unknown stage: "+req.Stage,
		)
		return
	}
	if err := a.state.AdvanceVaultStage(vaultID, stage); err != nil {
		a.writeStateError(w, err)
		return
	}
	vault, err := a.state.GetVault(vaultID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vaultToResponse(vault))
}

// handleVaultParams handles POST /vaults/{id}/params.
func (a *Api) handleVaultParams(
	w http.ResponseWriter,
	r *http.Request,
) {
	vaultID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	var req VaultParamsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params := state.VaultParams{
		AcquireMultiplier:       req.AcquireMultiplier,
		AdaDistribution:         req.AdaDistribution,
		ApplyParamsResult:       req.ApplyParamsResult,
		DispatchPreloadedScript: req.DispatchPreloadedScript,
	}
	if err := a.state.ApplyVaultParams(vaultID, params); err != nil {
		a.writeStateError(w, err)
		return
	}
	vault, err := a.state.GetVault(vaultID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vaultToResponse(vault))
}

// handleListAssets handles GET /assets?vault={id}.
func (a *Api) handleListAssets(
	w http.ResponseWriter,
	r *http.Request,
) {
	vaultParam := r.URL.Query().Get("vault")
	if vaultParam == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"vault query parameter is required",
		)
		return
	}
	vaultID, err := uuid.Parse(vaultParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	assets, err := a.state.GetAssetsByVault(vaultID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	resp := make([]AssetResponse, 0, len(assets))
	for _, asset := range assets {
		resp = append(resp, assetToResponse(asset))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateAsset handles POST /assets.
func (a *Api) handleCreateAsset(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateAssetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vaultID, err := uuid.Parse(req.VaultID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	if req.PolicyID == "" {
		writeError(w, http.StatusBadRequest, "policy_id is required")
		return
	}
	status := models.AssetStatus(req.Status)
	if req.Status != "" && status != models.AssetStatusPending {
		writeError(
			w,
			http.StatusBadRequest,
			"assets are created in pending status",
		)
		return
	}
	asset := &models.Asset{
		VaultID:   vaultID,
		PolicyID:  req.PolicyID,
		AssetName: req.AssetName,
		Quantity:  req.Quantity,
		Status:    status,
	}
	if req.OriginType != nil {
		origin := models.AssetOriginType(*req.OriginType)
		if !origin.Valid() {
			writeError(
				w,
				http.StatusBadRequest,
				"unknown origin type: "+*req.OriginType,
			)
			return
		}
		asset.OriginType = &origin
	}
	if err := a.state.CreateAsset(asset); err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assetToResponse(asset))
}

// handleGetAsset handles GET /assets/{id}.
func (a *Api) handleGetAsset(
	w http.ResponseWriter,
	r *http.Request,
) {
	assetID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	asset, err := a.state.GetAsset(assetID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assetToResponse(asset))
}

// handleAssetStatus handles POST /assets/{id}/status.
func (a *Api) handleAssetStatus(
	w http.ResponseWriter,
	r *http.Request,
) {
	assetID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	var req AssetStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := models.AssetStatus(req.Status)
	if !status.Valid() {
		writeError(
			w,
			http.StatusBadRequest,
			"unknown status: "+req.Status,
		)
		return
	}
	if err := a.state.TransitionAsset(assetID, status); err != nil {
		a.writeStateError(w, err)
		return
	}
	asset, err := a.state.GetAsset(assetID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assetToResponse(asset))
}

// handleAssetOrigin handles POST /assets/{id}/origin.
func (a *Api) handleAssetOrigin(
	w http.ResponseWriter,
	r *http.Request,
) {
	assetID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid asset id")
		return
	}
	var req AssetOriginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	origin := models.AssetOriginType(req.OriginType)
	if !origin.Valid() {
		writeError(
			w,
			http.StatusBadRequest,
			"unknown origin type: "+req.OriginType,
		)
		return
	}
	if err := a.state.SetAssetOrigin(assetID, origin); err != nil {
		a.writeStateError(w, err)
		return
	}
	asset, err := a.state.GetAsset(assetID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assetToResponse(asset))
}

// handleListProposals handles GET /proposals?vault={id}.
func (a *Api) handleListProposals(
	w http.ResponseWriter,
	r *http.Request,
) {
	vaultParam := r.URL.Query().Get("vault")
	if vaultParam == "" {
		writeError(
			w,
			http.StatusBadRequest,
			"vault query parameter is required",
		)
		return
	}
	vaultID, err := uuid.Parse(vaultParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	proposals, err := a.state.GetProposalsByVault(vaultID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	resp := make([]ProposalResponse, 0, len(proposals))
	for _, proposal := range proposals {
		resp = append(resp, proposalToResponse(proposal))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateProposal handles POST /proposals.
func (a *Api) handleCreateProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateProposalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vaultID, err := uuid.Parse(req.VaultID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	proposal := &models.Proposal{
		VaultID:            vaultID,
		Type:               models.ProposalType(req.Type),
		FungibleTokens:     req.FungibleTokens,
		NonFungibleTokens:  req.NonFungibleTokens,
		DistributionAssets: req.DistributionAssets,
		BurnAssets:         req.BurnAssets,
		TerminationReason:  req.TerminationReason,
		TerminationDate:    req.TerminationDate,
	}
	if err := a.state.CreateProposal(proposal, req.VoteOptions); err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proposalToResponse(proposal))
}

// handleGetProposal handles GET /proposals/{id}.
func (a *Api) handleGetProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	proposal, err := a.state.GetProposal(proposalID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalToResponse(proposal))
}

// handleResolveProposal handles POST /proposals/{id}/resolve.
func (a *Api) handleResolveProposal(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	var req ResolveProposalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.state.ResolveProposal(proposalID, req.Executed); err != nil {
		a.writeStateError(w, err)
		return
	}
	proposal, err := a.state.GetProposal(proposalID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposalToResponse(proposal))
}

// handleTally handles GET /proposals/{id}/tally.
func (a *Api) handleTally(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	tallies, err := a.state.Tally(proposalID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	resp := make([]TallyEntry, 0, len(tallies))
	for _, tally := range tallies {
		resp = append(resp, TallyEntry{
			VoteOptionID: tally.VoteOptionID,
			Count:        tally.Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCastVote handles POST /proposals/{id}/votes.
func (a *Api) handleCastVote(
	w http.ResponseWriter,
	r *http.Request,
) {
	proposalID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}
	var req CastVoteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.VoterID == "" {
		writeError(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if err := a.state.CastVote(
		proposalID,
		req.VoterID,
		req.Value,
	); err != nil {
		a.writeStateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListClaims handles GET /claims?limit={n}&offset={n}.
func (a *Api) handleListClaims(
	w http.ResponseWriter,
	r *http.Request,
) {
	limit, offset := 0, 0
	var err error
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if offset, err = strconv.Atoi(raw); err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
	}
	claims, err := a.state.GetClaims(limit, offset)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	resp := make([]ClaimResponse, 0, len(claims))
	for _, claim := range claims {
		resp = append(resp, claimToResponse(claim))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCreateClaim handles POST /claims.
func (a *Api) handleCreateClaim(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req CreateClaimRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	vaultID, err := uuid.Parse(req.VaultID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid vault id")
		return
	}
	if req.Claimant == "" {
		writeError(w, http.StatusBadRequest, "claimant is required")
		return
	}
	claim := &models.Claim{
		VaultID:        vaultID,
		Claimant:       req.Claimant,
		LovelaceAmount: req.LovelaceAmount,
		Multiplier:     req.Multiplier,
		Metadata:       req.Metadata,
	}
	if err := a.state.CreateClaim(claim); err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, claimToResponse(claim))
}

// handleGetClaim handles GET /claims/{id}.
func (a *Api) handleGetClaim(
	w http.ResponseWriter,
	r *http.Request,
) {
	claimID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}
	claim, err := a.state.GetClaim(claimID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, claimToResponse(claim))
}

// handleNormalizeClaim handles POST /claims/{id}/normalize.
func (a *Api) handleNormalizeClaim(
	w http.ResponseWriter,
	r *http.Request,
) {
	claimID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid claim id")
		return
	}
	changed, err := a.state.NormalizeClaim(claimID)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NormalizeClaimResponse{
		Changed: changed,
	})
}

// handleGetSetting handles GET /settings/{key}.
func (a *Api) handleGetSetting(
	w http.ResponseWriter,
	r *http.Request,
) {
	key := r.PathValue("key")
	value, err := a.state.GetSetting(key, nil)
	if err != nil {
		a.writeStateError(w, err)
		return
	}
	if value == nil {
		writeError(w, http.StatusNotFound, "setting not found: "+key)
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{
		Key:   key,
		Value: value,
	})
}

// handlePutSetting handles PUT /settings/{key}.
func (a *Api) handlePutSetting(
	w http.ResponseWriter,
	r *http.Request,
) {
	key := r.PathValue("key")
	var req PutSettingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}
	if err := a.state.SetSetting(key, req.Value); err != nil {
		a.writeStateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SettingResponse{
		Key:   key,
		Value: req.Value,
	})
}

// handleDeleteSetting handles DELETE /settings/{key}.
func (a *Api) handleDeleteSetting(
	w http.ResponseWriter,
	r *http.Request,
) {
	key := r.PathValue("key")
	if err := a.state.DeleteSetting(key); err != nil {
		a.writeStateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
