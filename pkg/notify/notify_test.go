package notify

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/draftkeep/internal/logger"
	"github.com/marmos91/draftkeep/pkg/storage"
)

func TestStatusStrip(t *testing.T) {
	t.Parallel()

	estimate := storage.Estimate{
		UsedBytes:   4_900_000,
		QuotaBytes:  storage.DefaultQuota,
		UsedKB:      4785.15625,
		PercentUsed: 93.46,
	}

	tests := []struct {
		name      string
		status    storage.Status
		wantOK    bool
		wantTitle string
		wantKind  Kind
	}{
		{"healthy", storage.StatusHealthy, false, "", ""},
		{"indeterminate", storage.StatusIndeterminate, false, "", ""},
		{"quota", storage.StatusQuotaExceeded, true, "Storage Quota Nearly Full", KindWarning},
		{"read only", storage.StatusAccessDenied, true, "Storage Access Limited", KindError},
		{"unavailable", storage.StatusUnavailable, true, "Storage Access Limited", KindError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, ok := StatusStrip(storage.Health{Status: tt.status}, estimate)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantKind, n.Kind)
		})
	}
}

func TestStatusStrip_Details(t *testing.T) {
	t.Parallel()

	n, ok := StatusStrip(storage.Health{Status: storage.StatusQuotaExceeded}, storage.Estimate{
		QuotaBytes:  storage.DefaultQuota,
		UsedKB:      4785.2,
		PercentUsed: 93.46,
	})
	require.True(t, ok)
	assert.Equal(t, "Using approximately 4785KB of 5MB available (93.5% full)", n.Details)
	assert.Equal(t, ActionClearDrafts, n.Action)

	n, ok = StatusStrip(storage.Health{Status: storage.StatusUnavailable}, storage.Estimate{})
	require.True(t, ok)
	assert.Equal(t, "Storage is unavailable. This may be due to private browsing mode or browser restrictions.", n.Message)
	assert.Equal(t, "The app will work but cannot save your data. Consider using a non-private browsing window.", n.Details)
}

func TestQuotaLabel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "5MB", quotaLabel(0))
	assert.Equal(t, "10MB", quotaLabel(10*1024*1024))
	assert.Equal(t, "32KB", quotaLabel(32*1024+1))
}

func TestMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Your previous content could not be loaded.", LoadFailed("").Message)
	assert.Equal(t, "boom", LoadFailed("boom").Message)
	assert.Equal(t, KindWarning, LoadFailed("").Kind)

	assert.Equal(t, "Storage Full", StorageFull().Title)
	assert.Equal(t, ActionClearDrafts, StorageFull().Action)
	assert.Equal(t, "Changes could not be saved to storage.", AutosaveFailed("").Message)
	assert.Equal(t, KindSuccess, Saved().Kind)
	assert.Equal(t, "Could not save changes.", SaveFailed("").Message)

	assert.Equal(t, `Draft "notes" has been saved.`, DraftSaved("notes").Message)
	assert.Equal(t, "Your draft has been saved.", DraftSaved("").Message)
}

func TestRecorderAndMulti(t *testing.T) {
	t.Parallel()

	var a, b Recorder
	sink := Multi(&a, nil, &b)
	sink.Notify(t.Context(), Saved())
	sink.Notify(t.Context(), StorageFull())

	assert.Equal(t, []string{"Saved!", "Storage Full"}, a.Titles())
	assert.Len(t, b.All(), 2)

	a.Reset()
	assert.Empty(t, a.All())
}

func TestNotifierFunc(t *testing.T) {
	t.Parallel()

	var got Notification
	NotifierFunc(func(_ context.Context, n Notification) { got = n }).Notify(t.Context(), EmptyDraft())
	assert.Equal(t, "Empty Draft", got.Title)
	Discard.Notify(t.Context(), EmptyDraft())
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "DEBUG", "json", false)
	t.Cleanup(func() { logger.InitWithWriter(&bytes.Buffer{}, "INFO", "text", false) })

	LogNotifier{}.Notify(t.Context(), AutosaveFailed("disk full"))
	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "Autosave Failed")
}

func TestNotification_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[success] Saved!: Your changes have been saved.", Saved().String())
	assert.Equal(t, "[info] Hi", Notification{Kind: KindInfo, Title: "Hi"}.String())
}
