package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/draftkeep/cmd/draftkeep/cmdutil"
	"github.com/marmos91/draftkeep/internal/bytesize"
	"github.com/marmos91/draftkeep/internal/cli/output"
	"github.com/marmos91/draftkeep/pkg/notify"
	"github.com/marmos91/draftkeep/pkg/storage"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe storage and show usage",
	Long: `Probe the configured storage with a sentinel write and show an estimate
of how much of the quota is in use.

A warning is shown when storage is unavailable, read-only, or rejecting
writes for lack of space.

Examples:
  # Probe the default storage
  draftkeep health

  # Probe as JSON
  draftkeep health -o json`,
	RunE: runHealth,
}

// HealthView is the output of the health command.
type HealthView struct {
	Health   storage.HealthReport `json:"health" yaml:"health"`
	Estimate storage.Estimate     `json:"estimate" yaml:"estimate"`
	Warning  *notify.Notification `json:"warning,omitempty" yaml:"warning,omitempty"`
}

func (v HealthView) pairs() [][2]string {
	pairs := [][2]string{
		{"Status", v.Health.Status},
		{"Available", cmdutil.BoolToYesNo(v.Health.Available)},
		{"Writable", cmdutil.BoolToYesNo(v.Health.CanWrite)},
		{"Used", bytesize.ByteSize(v.Estimate.UsedBytes).String()},
		{"Quota", bytesize.ByteSize(v.Estimate.QuotaBytes).String()},
		{"Percent used", fmt.Sprintf("%.1f%%", v.Estimate.PercentUsed)},
	}
	if v.Health.Cause != "" {
		pairs = append(pairs, [2]string{"Cause", v.Health.Cause})
	}
	return pairs
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	sess, err := cmdutil.OpenSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close(ctx) }()

	health := sess.Store.Health(ctx)
	estimate := sess.Store.Estimate(ctx)
	view := HealthView{Health: health.Report(), Estimate: estimate}
	if n, ok := notify.StatusStrip(health, estimate); ok {
		view.Warning = &n
	}

	if err := cmdutil.PrintResource(os.Stdout, view, view.pairs()); err != nil {
		return err
	}

	if view.Warning != nil {
		if format, _ := cmdutil.GetOutputFormatParsed(); format == output.FormatTable {
			printer, err := cmdutil.NewPrinter()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout)
			printer.Notify(ctx, *view.Warning)
		}
	}
	return nil
}
