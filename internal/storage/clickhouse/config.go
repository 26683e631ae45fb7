// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package clickhouse

import "time"

// Configuration holds connection options for the ClickHouse span store.
type Configuration struct {
	Addresses   []string      `mapstructure:"addresses"`
	Database    string        `mapstructure:"database"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// CreateSchema controls DDL bootstrap at startup. The DDL is
	// IF NOT EXISTS so re-running it is a no-op.
	CreateSchema bool `mapstructure:"create_schema"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Addresses:    []string{"127.0.0.1:9000"},
		Database:     "default",
		Username:     "default",
		DialTimeout:  5 * time.Second,
		CreateSchema: true,
	}
}

func (c *Configuration) applyDefaults() {
	def := DefaultConfiguration()
	if len(c.Addresses) == 0 {
		c.Addresses = def.Addresses
	}
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = def.DialTimeout
	}
}
