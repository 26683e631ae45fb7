// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package authgrpc

import (
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	pb "github.com/junjo-ai/junjo-server/proto-gen/junjo"
)

// stopGracePeriod bounds how long in-flight handlers may run after
// shutdown begins.
const stopGracePeriod = 5 * time.Second

// Options holds the auth server's listen configuration.
type Options struct {
	// GRPCHostPort to listen on, e.g. ":50053". Plaintext; the service is
	// internal-only.
	GRPCHostPort string `mapstructure:"grpc_host_port"`
}

func DefaultOptions() Options {
	return Options{GRPCHostPort: ":50053"}
}

// Server runs the InternalAuthService gRPC endpoint.
type Server struct {
	opts       Options
	logger     *zap.Logger
	grpcConn   net.Listener
	grpcServer *grpc.Server
	stopped    sync.WaitGroup
}

// NewServer creates and initializes Server.
func NewServer(opts Options, keys KeyStore, logger *zap.Logger) *Server {
	grpcServer := grpc.NewServer()
	pb.RegisterInternalAuthServiceServer(grpcServer, NewHandler(keys, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("junjo.InternalAuthService", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return &Server{
		opts:       opts,
		logger:     logger,
		grpcServer: grpcServer,
	}
}

// Start begins serving in the background.
func (s *Server) Start() error {
	var err error
	s.grpcConn, err = net.Listen("tcp", s.opts.GRPCHostPort)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}
	s.logger.Info("Starting auth gRPC server", zap.Stringer("addr", s.grpcConn.Addr()))
	s.stopped.Add(1)
	go func() {
		defer s.stopped.Done()
		if err := s.grpcServer.Serve(s.grpcConn); err != nil {
			s.logger.Error("Auth gRPC server exited", zap.Error(err))
		}
	}()
	return nil
}

// Close drains in-flight handlers for up to stopGracePeriod, then forces
// the server down, and closes the port listener.
func (s *Server) Close() error {
	drained := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(stopGracePeriod):
		s.logger.Warn("Graceful stop timed out, forcing auth server down")
		s.grpcServer.Stop()
	}
	s.stopped.Wait()
	return nil
}
