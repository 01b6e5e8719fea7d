package main

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	flexjson "github.com/reoring/flexjson"
	"github.com/reoring/flexjson/describe"
	"github.com/reoring/flexjson/internal/config"
	"github.com/reoring/flexjson/internal/logger"
)

type app struct {
	configPath   string
	describePath string
	recordName   string

	cfg    config.Config
	log    logger.Logger
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr, log: logger.Nop{}}

	root := &cobra.Command{
		Use:           "flexjson",
		Short:         "Decode JSON leniently against record descriptions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.NewDefaultLogger("flexjson", a.stderr, cfg.Verbose)
			a.log.Debug("config:\n%s", spew.Sdump(cfg))
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (yaml, json or toml)")
	pf.StringVarP(&a.describePath, "describe", "d", "", "YAML file with record descriptions")
	pf.StringVarP(&a.recordName, "record", "r", "", "record to use from the description file")
	pf.String("indent", "", "indent JSON output with this string")
	pf.BoolP("verbose", "v", false, "log debug output to stderr")
	pf.Int("max-depth", 0, "maximum nesting depth of the input (0 = unlimited)")
	pf.Int64("max-bytes", 0, "maximum input size in bytes (0 = unlimited)")
	pf.String("duplicate-keys", "ignore", "duplicate key policy: ignore, warn or error")
	pf.String("number-mode", "json_number", "number representation: json_number or float64")

	root.AddCommand(a.decodeCmd(), a.defaultsCmd(), a.schemaCmd(), a.listCmd())
	return root
}

func (a *app) catalog() (*describe.Catalog, error) {
	if a.describePath == "" {
		return nil, errors.New("--describe is required", errors.CategoryBadInput).
			WithTextCode("MISSING_DESCRIBE")
	}
	a.log.Debug("loading descriptions from %s", a.describePath)
	return describe.LoadFile(a.describePath)
}

func (a *app) record() (*flexjson.Record[flexjson.Object], error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	name, err := a.resolveName(cat)
	if err != nil {
		return nil, err
	}
	return cat.Record(name)
}

// resolveName falls back to the only record of the catalog when --record is
// not given.
func (a *app) resolveName(cat *describe.Catalog) (string, error) {
	if a.recordName != "" {
		return a.recordName, nil
	}
	names := cat.Names()
	if len(names) != 1 {
		return "", errors.New("--record is required when the description has several records", errors.CategoryBadInput).
			WithTextCode("MISSING_RECORD").
			WithMetadata(map[string]any{"records": names})
	}
	return names[0], nil
}

func (a *app) writeJSON(w io.Writer, r *flexjson.Record[flexjson.Object], v flexjson.Object) error {
	var (
		data []byte
		err  error
	)
	if a.cfg.Indent != "" {
		data, err = flexjson.MarshalIndent(r, v, "", a.cfg.Indent)
	} else {
		data, err = flexjson.Marshal(r, v)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
