package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/pkg/kv"
	"github.com/marmos91/draftkeep/pkg/kv/memory"
)

func TestProbe_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider func() kv.Provider
		want     Status
	}{
		{
			name:     "no provider",
			provider: func() kv.Provider { return nil },
			want:     StatusUnavailable,
		},
		{
			name:     "healthy",
			provider: func() kv.Provider { return memory.New() },
			want:     StatusHealthy,
		},
		{
			name:     "quota exhausted",
			provider: func() kv.Provider { return memory.New(memory.WithQuota(4)) },
			want:     StatusQuotaExceeded,
		},
		{
			name:     "read only",
			provider: func() kv.Provider { return memory.New(memory.WithReadOnly()) },
			want:     StatusAccessDenied,
		},
		{
			name: "unclassified failure",
			provider: func() kv.Provider {
				s := memory.New()
				s.SetFault(memory.FailTimes(memory.OpSet, errors.New("disk hiccup"), 0))
				return s
			},
			want: StatusIndeterminate,
		},
		{
			name: "failure on sentinel removal",
			provider: func() kv.Provider {
				s := memory.New()
				s.SetFault(memory.FailTimes(memory.OpRemove, kv.ErrPermission, 0))
				return s
			},
			want: StatusAccessDenied,
		},
		{
			name: "closed",
			provider: func() kv.Provider {
				s := memory.New()
				_ = s.Close()
				return s
			},
			want: StatusUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := NewProbe(tt.provider(), nil).Check(t.Context())
			assert.Equal(t, tt.want, h.Status, "status = %s", h.Status)
			if tt.want != StatusHealthy && tt.name != "no provider" {
				assert.Error(t, h.Cause)
			}
		})
	}
}

// checkedStore adds a backend healthcheck to the in-memory provider.
type checkedStore struct {
	*memory.Store
	err error
}

func (c checkedStore) Healthcheck(context.Context) error { return c.err }

func TestProbe_Healthcheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"passes", nil, StatusHealthy},
		{"unreachable backend", errors.New("connection refused"), StatusUnavailable},
		{"permission", kv.ErrPermission, StatusAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := memory.New()
			h := NewProbe(checkedStore{Store: s, err: tt.err}, nil).Check(t.Context())
			assert.Equal(t, tt.want, h.Status)
			if tt.err != nil {
				assert.ErrorIs(t, h.Cause, tt.err)
				keys, err := s.Keys(t.Context())
				require.NoError(t, err)
				assert.Empty(t, keys, "no sentinel written when the healthcheck fails")
			}
		})
	}
}

func TestProbe_RemovesSentinelAfterFailedSet(t *testing.T) {
	t.Parallel()

	s := memory.New()
	require.NoError(t, s.Set(t.Context(), sentinelKey, []byte(sentinelValue)))
	s.SetFault(memory.FailTimes(memory.OpSet, errors.New("disk hiccup"), 0))

	h := NewProbe(s, nil).Check(t.Context())
	assert.Equal(t, StatusIndeterminate, h.Status)

	_, err := s.Get(t.Context(), sentinelKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestProbe_LeavesNoSentinel(t *testing.T) {
	t.Parallel()

	s := memory.New()
	h := NewProbe(s, nil).Check(t.Context())
	require.True(t, h.CanWrite())

	keys, err := s.Keys(t.Context())
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Zero(t, s.Used())
}

func TestHealth_Predicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status                                   Status
		available, readOnly, quotaFull, canWrite bool
	}{
		{StatusUnavailable, false, false, false, false},
		{StatusHealthy, true, false, false, true},
		{StatusQuotaExceeded, true, false, true, false},
		{StatusAccessDenied, true, true, false, false},
		{StatusIndeterminate, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			h := Health{Status: tt.status}
			assert.Equal(t, tt.available, h.Available())
			assert.Equal(t, tt.readOnly, h.ReadOnly())
			assert.Equal(t, tt.quotaFull, h.QuotaExceeded())
			assert.Equal(t, tt.canWrite, h.CanWrite())

			r := h.Report()
			assert.Equal(t, tt.status.String(), r.Status)
			assert.Equal(t, tt.canWrite, r.CanWrite)
		})
	}
}

func TestHealth_ReportCause(t *testing.T) {
	t.Parallel()

	r := Health{Status: StatusIndeterminate, Cause: errors.New("boom")}.Report()
	assert.Equal(t, "boom", r.Cause)
	assert.Equal(t, "indeterminate", r.Status)
}
