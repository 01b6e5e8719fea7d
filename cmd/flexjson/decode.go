package main

import (
	"io"
	"os"

	"github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	flexjson "github.com/reoring/flexjson"
)

func (a *app) decodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [input.json|-]",
		Short: "Decode a JSON object, replacing unusable fields with defaults",
		Long: `Decode reads one JSON object (from a file, or stdin when the argument is
missing or "-") and prints it back in canonical form. Fields that are
missing or whose values cannot be used are replaced by their defaults.
Only malformed input fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runDecode,
	}
	cmd.Flags().Bool("report", false, "log the fields that fell back to defaults")
	return cmd
}

func (a *app) runDecode(cmd *cobra.Command, args []string) error {
	rec, err := a.record()
	if err != nil {
		return err
	}
	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	var src flexjson.Source = flexjson.JSONBytes(data)
	if a.cfg.NumberMode == flexjson.NumberFloat64 {
		src = flexjson.WithNumberMode(src, flexjson.NumberFloat64)
	}
	opt := a.cfg.ParseOpt()
	opt.OnIssue = func(is flexjson.Issue) { a.log.Info("%s at %s: %s", is.Code, is.Path, is.Message) }

	dm, err := flexjson.DecodeFromWithMeta(cmd.Context(), rec, src, opt)
	if err != nil {
		return err
	}
	if a.cfg.Report {
		for _, p := range dm.Presence.Defaulted() {
			a.log.Info("%s: default applied (%s)", p, dm.Presence[p])
		}
	}
	return a.writeJSON(cmd.OutOrStdout(), rec, dm.Value)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read input").
			WithMetadata(map[string]any{"path": args[0]})
	}
	return data, nil
}
