package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockEncoderChecker struct{ err error }

func (m *mockEncoderChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck(t *testing.T) {
	down := errors.New("conn refused")

	tests := []struct {
		name    string
		db      error
		encoder EncoderChecker
		cache   Pinger
		status  Status
		checks  map[string]CheckResult
	}{
		{
			name:   "database only",
			status: Healthy,
			checks: map[string]CheckResult{"database": CheckOK},
		},
		{
			name:    "all healthy",
			encoder: &mockEncoderChecker{},
			cache:   &mockPinger{},
			status:  Healthy,
			checks:  map[string]CheckResult{"database": CheckOK, "encoder": CheckOK, "cache": CheckOK},
		},
		{
			name:    "database down",
			db:      down,
			encoder: &mockEncoderChecker{},
			status:  Degraded,
			checks:  map[string]CheckResult{"database": CheckError, "encoder": CheckOK},
		},
		{
			name:    "encoder down",
			encoder: &mockEncoderChecker{err: down},
			status:  Degraded,
			checks:  map[string]CheckResult{"database": CheckOK, "encoder": CheckError},
		},
		{
			name:   "cache down",
			cache:  &mockPinger{err: down},
			status: Degraded,
			checks: map[string]CheckResult{"database": CheckOK, "cache": CheckError},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(&mockPinger{err: tc.db}, tc.encoder, tc.cache).Check(context.Background())
			assert.Equal(t, tc.status, r.Status)
			assert.Equal(t, tc.checks, r.Checks)
		})
	}
}
