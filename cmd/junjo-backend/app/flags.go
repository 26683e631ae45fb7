// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/junjo-ai/junjo-server/internal/authgrpc"
	"github.com/junjo-ai/junjo-server/internal/ingester"
	"github.com/junjo-ai/junjo-server/internal/ingester/upstream"
	"github.com/junjo-ai/junjo-server/internal/storage/clickhouse"
	"github.com/junjo-ai/junjo-server/internal/storage/sqlite"
)

// Flag names double as environment variable names: "span.poll-interval"
// binds to SPAN_POLL_INTERVAL and so on.
const (
	flagSpanPollInterval = "span.poll-interval"
	flagSpanBatchSize    = "span.batch-size"
	flagSpanStrictMode   = "span.strict-mode"

	flagIngestionHost = "ingestion.host"
	flagIngestionPort = "ingestion.port"

	flagGRPCPort = "grpc.port"

	flagDBSQLitePath = "db.sqlite-path"

	flagClickHouseAddresses = "clickhouse.addresses"
	flagClickHouseDatabase  = "clickhouse.database"
	flagClickHouseUsername  = "clickhouse.username"
	flagClickHousePassword  = "clickhouse.password"

	flagLogLevel = "log-level"
)

// Options holds the full backend configuration.
type Options struct {
	Poller     ingester.Options
	Upstream   upstream.Configuration
	Auth       authgrpc.Options
	SQLite     sqlite.Configuration
	ClickHouse clickhouse.Configuration
	LogLevel   string
}

// AddFlags adds flags to flag set.
func AddFlags(flagSet *flag.FlagSet) {
	flagSet.Int(flagSpanPollInterval, 5, "Seconds to sleep between upstream polls (1..3600)")
	flagSet.Int(flagSpanBatchSize, upstream.DefaultBatchSize, "Maximum number of span frames per poll (1..10000)")
	flagSet.Bool(flagSpanStrictMode, false, "Abort a whole batch on any decode or state-patch failure instead of skipping the frame")

	flagSet.String(flagIngestionHost, "junjo-server-ingestion", "Hostname of the upstream ingestion service")
	flagSet.Int(flagIngestionPort, 50052, "Port of the upstream ingestion service")

	flagSet.Int(flagGRPCPort, 50053, "Port of the internal auth gRPC server")

	flagSet.String(flagDBSQLitePath, ".dbdata/sqlite/junjo.db", "Path of the SQLite database file")

	flagSet.String(flagClickHouseAddresses, "127.0.0.1:9000", "Comma-separated host:port addresses of the ClickHouse cluster")
	flagSet.String(flagClickHouseDatabase, "default", "ClickHouse database holding the span tables")
	flagSet.String(flagClickHouseUsername, "default", "ClickHouse username")
	flagSet.String(flagClickHousePassword, "", "ClickHouse password")

	flagSet.String(flagLogLevel, "info", "Minimal allowed log level, e.g. debug, info, warn, error")
}

// InitFromViper initializes Options with properties from CLI flags and
// environment variables.
func (o *Options) InitFromViper(v *viper.Viper) *Options {
	o.Poller = ingester.Options{
		PollInterval: time.Duration(v.GetInt(flagSpanPollInterval)) * time.Second,
		BatchSize:    v.GetInt(flagSpanBatchSize),
		StrictMode:   v.GetBool(flagSpanStrictMode),
	}
	o.Upstream = upstream.Configuration{
		HostPort: fmt.Sprintf("%s:%d", v.GetString(flagIngestionHost), v.GetInt(flagIngestionPort)),
	}
	o.Auth = authgrpc.Options{
		GRPCHostPort: fmt.Sprintf(":%d", v.GetInt(flagGRPCPort)),
	}
	o.SQLite = sqlite.Configuration{
		Path: v.GetString(flagDBSQLitePath),
	}
	chDefaults := clickhouse.DefaultConfiguration()
	o.ClickHouse = clickhouse.Configuration{
		Addresses:    strings.Split(v.GetString(flagClickHouseAddresses), ","),
		Database:     v.GetString(flagClickHouseDatabase),
		Username:     v.GetString(flagClickHouseUsername),
		Password:     v.GetString(flagClickHousePassword),
		DialTimeout:  chDefaults.DialTimeout,
		CreateSchema: chDefaults.CreateSchema,
	}
	o.LogLevel = v.GetString(flagLogLevel)
	return o
}
