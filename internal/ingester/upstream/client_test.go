// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package upstream

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	pb "github.com/junjo-ai/junjo-server/proto-gen/junjo"
)

const clientTestTimeout = 5 * time.Second

type fakeIngestionServer struct {
	pb.UnimplementedInternalIngestionServiceServer

	responses []*pb.ReadSpansResponse
	streamErr error
	lastReq   *pb.ReadSpansRequest
}

func (s *fakeIngestionServer) ReadSpans(req *pb.ReadSpansRequest, stream pb.InternalIngestionService_ReadSpansServer) error {
	s.lastReq = req
	for _, res := range s.responses {
		if err := stream.Send(res); err != nil {
			return err
		}
	}
	return s.streamErr
}

func startTestServer(t *testing.T, server *fakeIngestionServer) *Client {
	t.Helper()
	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	pb.RegisterInternalIngestionServiceServer(grpcServer, server)
	go grpcServer.Serve(listener)
	t.Cleanup(grpcServer.Stop)

	client, err := NewClient(Configuration{HostPort: listener.Addr().String()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})
	return client
}

func TestReadSpans(t *testing.T) {
	server := &fakeIngestionServer{
		responses: []*pb.ReadSpansResponse{
			{KeyUlid: []byte("cursor-1"), SpanBytes: []byte("span-1"), ResourceBytes: []byte("res-1")},
			{KeyUlid: []byte("cursor-2"), SpanBytes: []byte("span-2"), ResourceBytes: []byte("res-2")},
		},
	}
	client := startTestServer(t, server)

	records, err := client.ReadSpans(context.Background(), []byte("cursor-0"), 50)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, []byte("cursor-1"), records[0].Cursor)
	assert.Equal(t, []byte("span-1"), records[0].SpanBytes)
	assert.Equal(t, []byte("res-1"), records[0].ResourceBytes)
	assert.Equal(t, []byte("cursor-2"), records[1].Cursor)

	require.NotNil(t, server.lastReq)
	assert.Equal(t, []byte("cursor-0"), server.lastReq.GetStartKeyUlid())
	assert.Equal(t, uint32(50), server.lastReq.GetBatchSize())
}

func TestReadSpansEmptyStream(t *testing.T) {
	client := startTestServer(t, &fakeIngestionServer{})

	records, err := client.ReadSpans(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadSpansBatchSizeClamping(t *testing.T) {
	server := &fakeIngestionServer{}
	client := startTestServer(t, server)

	_, err := client.ReadSpans(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(DefaultBatchSize), server.lastReq.GetBatchSize())

	_, err = client.ReadSpans(context.Background(), nil, MaxBatchSize+1)
	require.NoError(t, err)
	assert.Equal(t, uint32(MaxBatchSize), server.lastReq.GetBatchSize())
}

func TestReadSpansServerError(t *testing.T) {
	client := startTestServer(t, &fakeIngestionServer{
		responses: []*pb.ReadSpansResponse{{KeyUlid: []byte("cursor-1")}},
		streamErr: errors.New("log unavailable"),
	})

	_, err := client.ReadSpans(context.Background(), nil, 10)
	require.ErrorContains(t, err, "failed to receive from ReadSpans stream")
}

func TestReadSpansUnreachableServer(t *testing.T) {
	// grpc.NewClient connects lazily, so construction succeeds and the read
	// observes the failure.
	client, err := NewClient(Configuration{HostPort: "localhost:1"})
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), clientTestTimeout)
	defer cancel()
	_, err = client.ReadSpans(ctx, nil, 10)
	require.Error(t, err)
}

func TestDefaultConfiguration(t *testing.T) {
	assert.Equal(t, "junjo-server-ingestion:50052", DefaultConfiguration().HostPort)
}
