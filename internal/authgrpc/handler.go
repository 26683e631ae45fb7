// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package authgrpc serves API-key validation to in-datacenter callers.
package authgrpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/junjo-ai/junjo-server/internal/storage/sqlite"
	pb "github.com/junjo-ai/junjo-server/proto-gen/junjo"
)

// loggedKeyPrefixLen bounds how much of a key may ever reach the logs.
const loggedKeyPrefixLen = 12

// KeyStore is the part of the row store the auth server needs.
// Implemented by sqlite.Store.
type KeyStore interface {
	GetAPIKeyByKey(ctx context.Context, key string) (*sqlite.APIKey, error)
}

// Handler validates API keys. It fails closed: a store error produces
// is_valid=false, never an RPC error the caller could mistake for "retry
// and it might pass".
type Handler struct {
	pb.UnimplementedInternalAuthServiceServer

	keys   KeyStore
	logger *zap.Logger
}

func NewHandler(keys KeyStore, logger *zap.Logger) *Handler {
	return &Handler{keys: keys, logger: logger}
}

func (h *Handler) ValidateApiKey(ctx context.Context, req *pb.ValidateApiKeyRequest) (*pb.ValidateApiKeyResponse, error) {
	prefix := keyPrefix(req.GetApiKey())
	apiKey, err := h.keys.GetAPIKeyByKey(ctx, req.GetApiKey())
	if err != nil {
		h.logger.Error("API key lookup failed, rejecting key",
			zap.String("key_prefix", prefix), zap.Error(err))
		return &pb.ValidateApiKeyResponse{IsValid: false}, nil
	}
	if apiKey == nil {
		h.logger.Warn("Rejected unknown API key", zap.String("key_prefix", prefix))
		return &pb.ValidateApiKeyResponse{IsValid: false}, nil
	}
	h.logger.Debug("Validated API key",
		zap.String("key_prefix", prefix), zap.String("name", apiKey.Name))
	return &pb.ValidateApiKeyResponse{IsValid: true}, nil
}

func keyPrefix(key string) string {
	if len(key) > loggedKeyPrefixLen {
		return key[:loggedKeyPrefixLen]
	}
	return key
}
