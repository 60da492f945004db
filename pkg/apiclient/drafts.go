package apiclient

import (
	"context"
	"net/url"

	"github.com/marmos91/draftkeep/pkg/drafts"
)

// ListDrafts fetches every draft, or only pinned ones.
func (c *Client) ListDrafts(ctx context.Context, pinnedOnly bool) ([]drafts.Draft, error) {
	path := "/drafts"
	if pinnedOnly {
		path += "?pinned=true"
	}
	var list []drafts.Draft
	if err := c.get(ctx, path, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetDraft fetches one draft. A missing draft reports found=false.
func (c *Client) GetDraft(ctx context.Context, id string) (drafts.Draft, bool, error) {
	return c.getDraft(ctx, "/drafts/"+url.PathEscape(id))
}

// CurrentDraft fetches the current draft, if any.
func (c *Client) CurrentDraft(ctx context.Context) (drafts.Draft, bool, error) {
	return c.getDraft(ctx, "/drafts/current")
}

func (c *Client) getDraft(ctx context.Context, path string) (drafts.Draft, bool, error) {
	var d drafts.Draft
	if err := c.get(ctx, path, &d); err != nil {
		if IsNotFound(err) {
			return drafts.Draft{}, false, nil
		}
		return drafts.Draft{}, false, err
	}
	return d, true, nil
}
