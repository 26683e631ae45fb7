// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

package clickhouse

import (
	"context"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// fakeConn records prepared batches and serves canned query results. The
// embedded interface panics on anything the store is not expected to call.
type fakeConn struct {
	driver.Conn

	batches     []*fakeBatch
	prepareErrs []error // consumed one per PrepareBatch call
	appendErr   error   // stamped onto every created batch
	execErr     error
	queryRows   *fakeRows
	queryErr    error

	execQueries []string
	lastQuery   string
	lastArgs    []any
	closed      bool
}

func (c *fakeConn) PrepareBatch(_ context.Context, query string, _ ...driver.PrepareBatchOption) (driver.Batch, error) {
	if len(c.prepareErrs) > 0 {
		err := c.prepareErrs[0]
		c.prepareErrs = c.prepareErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	batch := &fakeBatch{query: query, appendErr: c.appendErr}
	c.batches = append(c.batches, batch)
	return batch, nil
}

func (c *fakeConn) Exec(_ context.Context, query string, _ ...any) error {
	c.execQueries = append(c.execQueries, query)
	return c.execErr
}

func (c *fakeConn) Query(_ context.Context, query string, args ...any) (driver.Rows, error) {
	c.lastQuery = query
	c.lastArgs = args
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	if c.queryRows == nil {
		return &fakeRows{}, nil
	}
	return c.queryRows, nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeBatch struct {
	driver.Batch

	query     string
	rows      [][]any
	appendErr error
	sendErr   error
	sent      bool
	aborted   bool
}

func (b *fakeBatch) Append(values ...any) error {
	if b.appendErr != nil {
		return b.appendErr
	}
	b.rows = append(b.rows, values)
	return nil
}

func (b *fakeBatch) Send() error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = true
	return nil
}

func (b *fakeBatch) Abort() error {
	b.aborted = true
	return nil
}

// fakeRows serves rows of pre-typed values; Scan assigns each value to the
// corresponding destination pointer.
type fakeRows struct {
	driver.Rows

	data   [][]any
	cursor int
	err    error
}

func (r *fakeRows) Next() bool {
	if r.cursor >= len(r.data) {
		return false
	}
	r.cursor++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.cursor-1]
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Err() error {
	return r.err
}

func (*fakeRows) Close() error {
	return nil
}
