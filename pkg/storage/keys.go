package storage

// Persisted keys shared by the editor components.
const (
	KeyContent      = "markdown-content"
	KeyLastSaved    = "markdown-last-saved"
	KeyPreviewTheme = "preview-theme"
	KeyEditorMode   = "editor-mode"
	KeyDrafts       = "markdown-drafts"
	KeyCurrentDraft = "current-draft-id"
)

// The probe writes and immediately removes this key.
const (
	sentinelKey   = "__storage_test__"
	sentinelValue = "test"
)
