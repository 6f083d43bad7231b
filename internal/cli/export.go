package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"auratrack_backend/internal/feature/entries/domain/entity"
	"auratrack_backend/internal/feature/entries/usecase"
)

type exportFlags struct {
	user         string
	from         string
	to           string
	minIntensity int
	hasAura      bool
	trigger      string
	mealGapHours float64
	locale       string
	out          string
}

func newExportCmd(opts *RootOptions) *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a user's entries as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flags.filter(cmd)
			if err != nil {
				return err
			}
			b, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			defer opts.release(cmd)

			var export *usecase.Export
			if flags.locale == "" {
				export, err = b.Exporter.Export(cmd.Context(), f)
			} else {
				export, err = b.Exporter.ExportWithLocale(cmd.Context(), f, usecase.ParseLocale(flags.locale))
			}
			if err != nil {
				return err
			}

			if flags.out == "" || flags.out == "-" {
				_, err = cmd.OutOrStdout().Write(append(export.Content, '\n'))
				return err
			}
			if err := writeFileAtomic(flags.out, export.Content); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d entries to %s\n", export.Rows, flags.out)
			return err
		},
	}

	cmd.Flags().StringVar(&flags.user, "user", "", "Owner username (required)")
	cmd.Flags().StringVar(&flags.from, "from", "", "Range start, RFC 3339 (required)")
	cmd.Flags().StringVar(&flags.to, "to", "", "Range end, RFC 3339 (required)")
	cmd.Flags().IntVar(&flags.minIntensity, "min-intensity", 0, "Only entries with intensity >= N")
	cmd.Flags().BoolVar(&flags.hasAura, "has-aura", false, "Only entries with (true) or without (false) aura")
	cmd.Flags().StringVar(&flags.trigger, "trigger", "", "Only entries with a trigger containing this text")
	cmd.Flags().Float64Var(&flags.mealGapHours, "meal-gap-hours", 0, "Only entries at least H hours after the last meal")
	cmd.Flags().StringVar(&flags.locale, "locale", "", "Header language: en|es (default from EXPORT_LOCALE)")
	cmd.Flags().StringVar(&flags.out, "out", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// filter converts flags into a Filter; unset optional flags stay nil.
func (fl *exportFlags) filter(cmd *cobra.Command) (entity.Filter, error) {
	from, err := parseInstant("from", fl.from)
	if err != nil {
		return entity.Filter{}, err
	}
	to, err := parseInstant("to", fl.to)
	if err != nil {
		return entity.Filter{}, err
	}

	f := entity.Filter{Username: fl.user, From: from, To: to}
	if cmd.Flags().Changed("min-intensity") {
		v := fl.minIntensity
		f.MinIntensity = &v
	}
	if cmd.Flags().Changed("has-aura") {
		v := fl.hasAura
		f.HasAura = &v
	}
	if fl.trigger != "" {
		v := fl.trigger
		f.TriggerContains = &v
	}
	if cmd.Flags().Changed("meal-gap-hours") {
		v := fl.mealGapHours
		if !entity.ValidMealGapHours(v) {
			return entity.Filter{}, fmt.Errorf("invalid --meal-gap-hours value %v: expected a finite number of hours >= 0", v)
		}
		f.MealGapHours = &v
	}
	return f, nil
}

func parseInstant(name, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s value %q: expected RFC 3339, e.g. 2024-03-01T00:00:00Z", name, value)
	}
	return t.UTC(), nil
}

// writeFileAtomic writes to a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".auractl-export-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
