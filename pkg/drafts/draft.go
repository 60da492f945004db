package drafts

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/draftkeep/pkg/storage"
)

// Draft is a named content snapshot.
type Draft struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Pinned    bool      `json:"pinned" yaml:"pinned"`
}

// record is the persisted shape: timestamps are Unix milliseconds.
type record struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt" validate:"gte=0"`
	UpdatedAt int64  `json:"updatedAt" validate:"gte=0"`
	IsPinned  bool   `json:"isPinned"`
}

type collection struct {
	Records []record `validate:"unique=ID,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func toRecord(d Draft) record {
	return record{
		ID:        d.ID,
		Name:      d.Name,
		Content:   d.Content,
		CreatedAt: d.CreatedAt.UnixMilli(),
		UpdatedAt: d.UpdatedAt.UnixMilli(),
		IsPinned:  d.Pinned,
	}
}

func (r record) draft() Draft {
	return Draft{
		ID:        r.ID,
		Name:      r.Name,
		Content:   r.Content,
		CreatedAt: time.UnixMilli(r.CreatedAt),
		UpdatedAt: time.UnixMilli(r.UpdatedAt),
		Pinned:    r.IsPinned,
	}
}

// decode parses the stored collection. Anything that is not a JSON array of
// well-formed records with unique ids is reported as corrupted.
func decode(raw string) ([]Draft, error) {
	var c collection
	if err := json.Unmarshal([]byte(raw), &c.Records); err != nil {
		return nil, storage.NewError(storage.KindCorrupted, storage.OpRead, storage.KeyDrafts,
			"Saved drafts could not be parsed", err)
	}
	if err := validate.Struct(c); err != nil {
		return nil, storage.NewError(storage.KindCorrupted, storage.OpRead, storage.KeyDrafts,
			"Saved drafts are malformed", err)
	}

	drafts := make([]Draft, len(c.Records))
	for i, r := range c.Records {
		drafts[i] = r.draft()
	}
	return drafts, nil
}

func encode(drafts []Draft) (string, error) {
	records := make([]record, len(drafts))
	for i, d := range drafts {
		records[i] = toRecord(d)
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode drafts: %w", err)
	}
	return string(raw), nil
}

// sortForDisplay orders pinned drafts first, each group by UpdatedAt
// descending. The sort is stable so equal timestamps keep insertion order.
func sortForDisplay(drafts []Draft) {
	slices.SortStableFunc(drafts, func(a, b Draft) int {
		if a.Pinned != b.Pinned {
			if a.Pinned {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.UpdatedAt.UnixMilli(), a.UpdatedAt.UnixMilli())
	})
}
