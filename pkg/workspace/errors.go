package workspace

import "errors"

// ErrEmptyDraft is returned when saving blank content as a draft.
var ErrEmptyDraft = errors.New("draft content is empty")
