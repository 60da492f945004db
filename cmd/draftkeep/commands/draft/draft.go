// Package draft implements draft management subcommands.
package draft

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/bytesize"
	"github.com/marmos91/draftkeep/internal/cli/timeutil"
	"github.com/marmos91/draftkeep/pkg/drafts"
)

// Cmd is the draft subcommand.
var Cmd = &cobra.Command{
	Use:     "draft",
	Aliases: []string{"drafts"},
	Short:   "Manage saved drafts",
	Long: `Manage named drafts of the content.

Drafts can be referenced by id or by name (case-insensitive).

Subcommands:
  list     List drafts, pinned first
  show     Show a draft
  new      Save content as a new draft
  rename   Rename a draft
  pin      Pin a draft
  unpin    Unpin a draft
  delete   Delete a draft
  open     Make a draft the current content
  current  Show the current draft`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(newCmd)
	Cmd.AddCommand(renameCmd)
	Cmd.AddCommand(pinCmd)
	Cmd.AddCommand(unpinCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(openCmd)
	Cmd.AddCommand(currentCmd)
}

// DraftList is a list of drafts for table rendering.
type DraftList []drafts.Draft

// Headers implements TableRenderer.
func (dl DraftList) Headers() []string {
	return []string{"ID", "NAME", "PINNED", "SIZE", "UPDATED"}
}

// Rows implements TableRenderer.
func (dl DraftList) Rows() [][]string {
	now := time.Now()
	rows := make([][]string, 0, len(dl))
	for _, d := range dl {
		rows = append(rows, []string{
			d.ID,
			d.Name,
			cmdutil.BoolToYesNo(d.Pinned),
			bytesize.ByteSize(len(d.Content)).String(),
			timeutil.FormatAge(d.UpdatedAt, now),
		})
	}
	return rows
}

func draftPairs(d drafts.Draft) [][2]string {
	return [][2]string{
		{"ID", d.ID},
		{"Name", d.Name},
		{"Pinned", cmdutil.BoolToYesNo(d.Pinned)},
		{"Size", bytesize.ByteSize(len(d.Content)).String()},
		{"Created", timeutil.FormatTime(d.CreatedAt)},
		{"Updated", timeutil.FormatTime(d.UpdatedAt)},
	}
}

func notFound(ref string) error {
	return fmt.Errorf("draft %q not found", ref)
}
