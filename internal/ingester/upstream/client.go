// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package upstream implements the client side of the ingestion service's
// ReadSpans streaming RPC.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	pb "github.com/junjo-ai/junjo-server/proto-gen/junjo"
)

const (
	// DefaultBatchSize is used when the caller passes a non-positive size.
	DefaultBatchSize = 100
	// MaxBatchSize bounds a single read, and with it the poller's memory use.
	MaxBatchSize = 10000
)

// SpanRecord is one frame of the upstream write-ahead log: an opaque,
// lexicographically ordered cursor plus the serialized OTLP span and its
// resource.
type SpanRecord struct {
	Cursor        []byte
	SpanBytes     []byte
	ResourceBytes []byte
}

// Configuration holds options for the upstream reader connection.
type Configuration struct {
	// HostPort of the ingestion service, e.g. "junjo-server-ingestion:50052".
	HostPort string `mapstructure:"host_port"`
}

func DefaultConfiguration() Configuration {
	return Configuration{HostPort: "junjo-server-ingestion:50052"}
}

// Client holds one long-lived channel to the ingestion service. The channel
// is kept alive between polls and re-established by gRPC on transient
// failures. The service is internal-only, so the transport is insecure.
type Client struct {
	conn   *grpc.ClientConn
	client pb.InternalIngestionServiceClient
}

func NewClient(cfg Configuration) (*Client, error) {
	conn, err := grpc.NewClient(cfg.HostPort,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion client: %w", err)
	}
	return &Client{
		conn:   conn,
		client: pb.NewInternalIngestionServiceClient(conn),
	}, nil
}

// ReadSpans collects one streamed batch of records strictly after
// startCursor, in ascending cursor order. An empty result means no new
// data. The final record's cursor is the caller's new high-water mark.
func (c *Client) ReadSpans(ctx context.Context, startCursor []byte, batchSize int) ([]SpanRecord, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}

	stream, err := c.client.ReadSpans(ctx, &pb.ReadSpansRequest{
		StartKeyUlid: startCursor,
		BatchSize:    uint32(batchSize),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ReadSpans stream: %w", err)
	}

	var records []SpanRecord
	for {
		res, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to receive from ReadSpans stream: %w", err)
		}
		records = append(records, SpanRecord{
			Cursor:        res.GetKeyUlid(),
			SpanBytes:     res.GetSpanBytes(),
			ResourceBytes: res.GetResourceBytes(),
		})
	}
	return records, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
