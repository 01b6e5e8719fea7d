package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func (a *app) defaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the record made only of defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rec, err := a.record()
			if err != nil {
				return err
			}
			return a.writeJSON(cmd.OutOrStdout(), rec, rec.Default())
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	var openapi bool
	var title, version string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a record",
		Long: `Schema prints the JSON Schema of one record. With --openapi it prints an
OpenAPI 3.0 document holding every record of the description instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			var doc any
			if openapi {
				if doc, err = cat.OpenAPI(cmd.Context(), title, version); err != nil {
					return err
				}
			} else {
				name, err := a.resolveName(cat)
				if err != nil {
					return err
				}
				if doc, err = cat.Schema(name); err != nil {
					return err
				}
			}
			indent := a.cfg.Indent
			if indent == "" {
				indent = "  "
			}
			data, err := json.MarshalIndent(doc, "", indent)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		},
	}
	cmd.Flags().BoolVar(&openapi, "openapi", false, "print an OpenAPI 3.0 document with every record")
	cmd.Flags().StringVar(&title, "title", "flexjson records", "OpenAPI info title")
	cmd.Flags().StringVar(&version, "api-version", "1.0.0", "OpenAPI info version")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the records of a description file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			for _, n := range cat.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
