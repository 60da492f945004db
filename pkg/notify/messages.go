package notify

import (
	"fmt"
	"time"
)

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

// LoadFailed is shown when saved content could not be read at startup.
func LoadFailed(message string) Notification {
	return Notification{
		Kind:     KindWarning,
		Title:    "Could Not Load Content",
		Message:  orDefault(message, "Your previous content could not be loaded."),
		Duration: 5 * time.Second,
	}
}

// StorageFull is shown from the quota callback of an autosave.
func StorageFull() Notification {
	return Notification{
		Kind:     KindError,
		Title:    "Storage Full",
		Message:  "Could not save. Please clear some drafts or browser cache.",
		Action:   ActionClearDrafts,
		Duration: 5 * time.Second,
	}
}

// AutosaveFailed is shown when a debounced save fails.
func AutosaveFailed(message string) Notification {
	return Notification{
		Kind:     KindError,
		Title:    "Autosave Failed",
		Message:  orDefault(message, "Changes could not be saved to storage."),
		Duration: 4 * time.Second,
	}
}

// Saved is shown after a successful manual save.
func Saved() Notification {
	return Notification{
		Kind:     KindSuccess,
		Title:    "Saved!",
		Message:  "Your changes have been saved.",
		Duration: 2 * time.Second,
	}
}

// SaveFailed is shown when a manual save fails.
func SaveFailed(message string) Notification {
	return Notification{
		Kind:     KindError,
		Title:    "Save Failed",
		Message:  orDefault(message, "Could not save changes."),
		Duration: 3 * time.Second,
	}
}

// DraftSaved is shown after the current content was stored as a draft.
func DraftSaved(name string) Notification {
	msg := "Your draft has been saved."
	if name != "" {
		msg = fmt.Sprintf("Draft %q has been saved.", name)
	}
	return Notification{
		Kind:     KindSuccess,
		Title:    "Draft Saved!",
		Message:  msg,
		Duration: 3 * time.Second,
	}
}

// DraftSaveFailed is shown when storing a draft fails.
func DraftSaveFailed() Notification {
	return Notification{
		Kind:     KindError,
		Title:    "Save Failed",
		Message:  "Could not save draft to storage.",
		Duration: 3 * time.Second,
	}
}

// EmptyDraft is shown when saving a draft of blank content.
func EmptyDraft() Notification {
	return Notification{
		Kind:     KindWarning,
		Title:    "Empty Draft",
		Message:  "Please add content before saving a draft.",
		Duration: 3 * time.Second,
	}
}
