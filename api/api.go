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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/vaultforge/vaultd/event"
	"github.com/vaultforge/vaultd/state"
)

// ApiConfig provides the configuration for the REST API server.
type ApiConfig struct {
	ListenAddress string
	EventBus      *event.EventBus
}

// Api is the governance REST API server.
type Api struct {
	config     ApiConfig
	logger     *slog.Logger
	state      *state.VaultState
	httpServer *http.Server
	eventSubs  map[event.EventType]event.EventSubscriberId
	mu         sync.Mutex
}

// New creates a new API server instance.
func New(
	cfg ApiConfig,
	vaultState *state.VaultState,
	logger *slog.Logger,
) *Api {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "api")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":3000"
	}
	return &Api{
		config:    cfg,
		logger:    logger,
		state:     vaultState,
		eventSubs: make(map[event.EventType]event.EventSubscriberId),
	}
}

// Start starts the HTTP server in a background goroutine.
func (a *Api) Start(
	ctx context.Context,
) error {
	a.mu.Lock()
	if a.httpServer != nil {
		a.mu.Unlock()
		return errors.New("server already started")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /", a.handleRoot)
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /vaults", a.handleListVaults)
	mux.HandleFunc("POST /vaults", a.handleCreateVault)
	mux.HandleFunc("GET /vaults/{id}", a.handleGetVault)
	mux.HandleFunc("POST /vaults/{id}/stage", a.handleVaultStage)
	mux.HandleFunc("POST /vaults/{id}/params", a.handleVaultParams)
	mux.HandleFunc("GET /assets", a.handleListAssets)
	mux.HandleFunc("POST /assets", a.handleCreateAsset)
	mux.HandleFunc("GET /assets/{id}", a.handleGetAsset)
	mux.HandleFunc("POST /assets/{id}/status", a.handleAssetStatus)
	mux.HandleFunc("POST /assets/{id}/origin", a.handleAssetOrigin)
	mux.HandleFunc("GET /proposals", a.handleListProposals)
	mux.HandleFunc("POST /proposals", a.handleCreateProposal)
	mux.HandleFunc("GET /proposals/{id}", a.handleGetProposal)
	mux.HandleFunc("POST /proposals/{id}/resolve", a.handleResolveProposal)
	mux.HandleFunc("GET /proposals/{id}/tally", a.handleTally)
	mux.HandleFunc("POST /proposals/{id}/votes", a.handleCastVote)
	mux.HandleFunc("GET /claims", a.handleListClaims)
	mux.HandleFunc("POST /claims", a.handleCreateClaim)
	mux.HandleFunc("GET /claims/{id}", a.handleGetClaim)
	mux.HandleFunc("POST /claims/{id}/normalize", a.handleNormalizeClaim)
	mux.HandleFunc("GET /settings/{key}", a.handleGetSetting)
	mux.HandleFunc("PUT /settings/{key}", a.handlePutSetting)
	mux.HandleFunc("DELETE /settings/{key}", a.handleDeleteSetting)

	server := &http.Server{
		Addr:              a.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	a.httpServer = server
	a.mu.Unlock()

	// Start the server with deterministic error detection
	if err := a.startServer(server); err != nil {
		a.mu.Lock()
		a.httpServer = nil
		a.mu.Unlock()
		return err
	}

	a.subscribeEvents()

	a.logger.Info(
		"API listener started on " + a.config.ListenAddress,
	)

	// Monitor context for cancellation
	go func() {
		<-ctx.Done()
		a.mu.Lock()
		srv := a.httpServer
		a.httpServer = nil
		a.mu.Unlock()

		if srv != nil {
			a.logger.Debug(
				"context cancelled, shutting down API server",
			)
			//nolint:contextcheck
			shutdownCtx, cancel := context.WithTimeout(
				context.Background(),
				30*time.Second,
			)
			defer cancel()
			//nolint:contextcheck
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error(
					"failed to shutdown API server on context cancellation",
					"error", err,
				)
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *Api) Stop(
	ctx context.Context,
) error {
	a.mu.Lock()
	srv := a.httpServer
	a.httpServer = nil
	subs := a.eventSubs
	a.eventSubs = make(map[event.EventType]event.EventSubscriberId)
	a.mu.Unlock()

	if a.config.EventBus != nil {
		for eventType, subId := range subs {
			a.config.EventBus.Unsubscribe(eventType, subId)
		}
	}

	if srv != nil {
		a.logger.Debug("shutting down API server")
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf(
				"failed to shutdown API server: %w",
				err,
			)
		}
	}
	return nil
}

// startServer starts the HTTP server with deterministic error detection.
// It binds the listening socket first so port conflicts are detected
// immediately, then serves in a background goroutine.
func (a *Api) startServer(
	server *http.Server,
) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf(
			"failed to listen for API server: %w",
			err,
		)
	}
	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			a.logger.Error(
				"API server error",
				"error", err,
			)
		}
	}()
	return nil
}

// subscribeEvents attaches a logging subscriber for each lifecycle event
// type so operators see domain activity without polling the database.
func (a *Api) subscribeEvents() {
	if a.config.EventBus == nil {
		return
	}
	eventTypes := []event.EventType{
		event.VaultStageEventType,
		event.AssetStatusEventType,
		event.ProposalCreatedEventType,
		event.ProposalResolvedEventType,
		event.VoteCastEventType,
		event.ClaimNormalizedEventType,
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, eventType := range eventTypes {
		a.eventSubs[eventType] = a.config.EventBus.SubscribeFunc(
			eventType,
			func(evt event.Event) {
				a.logger.Info(
					"lifecycle event",
					"type", evt.Type,
					"data", evt.Data,
				)
			},
		)
	}
}
