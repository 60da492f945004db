package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/bytesize"
	"github.com/marmos91/draftkeep/internal/cli/output"
	"github.com/marmos91/draftkeep/pkg/apiclient"
)

var statusServer string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running draftkeep over its status API",
	Long: `Query the status API of a running "draftkeep serve" or
"draftkeep edit --status-port" process. Use this while another process
holds the storage open.

Examples:
  # Query the configured status port on localhost
  draftkeep status

  # Query a specific instance
  draftkeep status --server http://localhost:9090 -o json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusServer, "server", "", "Status API URL (default: http://localhost:<status.port>)")
	rootCmd.AddCommand(statusCmd)
}

// StatusView is the output of the status command.
type StatusView struct {
	Server   string                    `json:"server" yaml:"server"`
	Storage  *apiclient.StorageStatus  `json:"storage" yaml:"storage"`
	Autosave *apiclient.AutosaveStatus `json:"autosave,omitempty" yaml:"autosave,omitempty"`
	Current  string                    `json:"current_draft,omitempty" yaml:"current_draft,omitempty"`
}

func (v StatusView) pairs() [][2]string {
	pairs := [][2]string{
		{"Server", v.Server},
		{"Storage", v.Storage.Health.Status},
		{"Used", fmt.Sprintf("%s of %s (%.1f%%)",
			bytesize.ByteSize(v.Storage.Estimate.UsedBytes),
			bytesize.ByteSize(v.Storage.Estimate.QuotaBytes),
			v.Storage.Estimate.PercentUsed)},
	}
	if v.Autosave != nil {
		pairs = append(pairs,
			[2]string{"Autosave", v.Autosave.State},
			[2]string{"Unsaved changes", cmdutil.BoolToYesNo(v.Autosave.Dirty)},
		)
	}
	pairs = append(pairs, [2]string{"Current draft", cmdutil.EmptyOr(v.Current, "-")})
	return pairs
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	server := statusServer
	if server == "" {
		cfg, err := cmdutil.LoadConfig()
		if err != nil {
			return err
		}
		cfg.Status.ApplyDefaults()
		server = "http://" + cfg.Status.Addr()
	}

	client := apiclient.New(server)
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("no draftkeep status API at %s: %w", server, err)
	}

	view := StatusView{Server: server}

	storageStatus, err := client.Storage(ctx)
	if err != nil && !apiclient.IsUnhealthy(err) {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	view.Storage = storageStatus

	if s, err := client.Autosave(ctx); err == nil {
		view.Autosave = s
	}

	if d, ok, err := client.CurrentDraft(ctx); err == nil && ok {
		view.Current = d.Name
	}

	if err := cmdutil.PrintResource(os.Stdout, view, view.pairs()); err != nil {
		return err
	}

	if view.Storage.Strip != nil {
		if format, _ := cmdutil.GetOutputFormatParsed(); format == output.FormatTable {
			printer, err := cmdutil.NewPrinter()
			if err != nil {
				return err
			}
			printer.Println()
			printer.Notify(ctx, *view.Storage.Strip)
		}
	}
	return nil
}
