package notify

import (
	"fmt"

	"github.com/marmos91/draftkeep/pkg/storage"
)

// StatusStrip derives the persistent storage banner from a health report.
// A healthy or indeterminate store gets no strip.
func StatusStrip(health storage.Health, estimate storage.Estimate) (Notification, bool) {
	switch {
	case health.QuotaExceeded():
		return Notification{
			Kind:    KindWarning,
			Title:   "Storage Quota Nearly Full",
			Message: "Your browser storage is almost full. Clear some drafts or browser cache to continue saving.",
			Action:  ActionClearDrafts,
			Details: fmt.Sprintf("Using approximately %.0fKB of %s available (%.1f%% full)",
				estimate.UsedKB, quotaLabel(estimate.QuotaBytes), estimate.PercentUsed),
		}, true
	case !health.Available() || health.ReadOnly():
		return Notification{
			Kind:    KindError,
			Title:   "Storage Access Limited",
			Message: "Storage is unavailable. This may be due to private browsing mode or browser restrictions.",
			Details: "The app will work but cannot save your data. Consider using a non-private browsing window.",
		}, true
	default:
		return Notification{}, false
	}
}

// quotaLabel renders whole megabyte quotas as "5MB" and anything else in KB.
func quotaLabel(bytes int64) string {
	if bytes <= 0 {
		bytes = storage.DefaultQuota
	}
	const mb = 1024 * 1024
	if bytes%mb == 0 {
		return fmt.Sprintf("%dMB", bytes/mb)
	}
	return fmt.Sprintf("%.0fKB", float64(bytes)/1024)
}
