package storage

import (
	"context"

	"github.com/marmos91/draftkeep/pkg/kv"
	"github.com/marmos91/draftkeep/pkg/metrics"
)

// DefaultQuota is the capacity assumed when nothing better is known, the
// typical browser localStorage limit.
const DefaultQuota int64 = 5 * 1024 * 1024

// Estimate is a rough view of store usage.
type Estimate struct {
	UsedBytes   int64   `json:"used_bytes" yaml:"used_bytes"`
	QuotaBytes  int64   `json:"quota_bytes" yaml:"quota_bytes"`
	UsedKB      float64 `json:"used_kb" yaml:"used_kb"`
	AvailableKB float64 `json:"available_kb" yaml:"available_kb"`
	PercentUsed float64 `json:"percent_used" yaml:"percent_used"`
}

// Estimate sums key and value lengths over every stored entry and compares
// the total with the quota. It never fails: unreadable entries are skipped
// and an unreadable key list counts as empty.
func (s *SafeStore) Estimate(ctx context.Context) Estimate {
	quota := s.quota
	if sizer, ok := s.provider.(kv.Sizer); ok && sizer.Quota() > 0 {
		quota = sizer.Quota()
	}
	if quota <= 0 {
		quota = DefaultQuota
	}

	var used int64
	if s.provider != nil {
		if keys, err := s.provider.Keys(ctx); err == nil {
			for _, key := range keys {
				value, err := s.provider.Get(ctx, key)
				if err != nil {
					continue
				}
				used += kv.EntrySize(key, value)
			}
		}
	}

	metrics.RecordUsage(s.metrics, used, quota)

	usedKB := float64(used) / 1024
	quotaKB := float64(quota) / 1024
	return Estimate{
		UsedBytes:   used,
		QuotaBytes:  quota,
		UsedKB:      usedKB,
		AvailableKB: quotaKB - usedKB,
		PercentUsed: usedKB / quotaKB * 100,
	}
}
