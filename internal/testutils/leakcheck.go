// Copyright (c) 2025 The Junjo Authors.
// SPDX-License-Identifier: Apache-2.0

// Package testutils holds helpers shared by the package test suites.
package testutils

import (
	"testing"

	"go.uber.org/goleak"
)

// VerifyGoLeaks verifies that no goroutines are leaked after all tests in
// the package run. Call from TestMain.
func VerifyGoLeaks(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// VerifyGoLeaksOnce verifies that no goroutines are leaked at the end of a
// single test.
func VerifyGoLeaksOnce(t *testing.T) {
	t.Helper()
	goleak.VerifyNone(t)
}
