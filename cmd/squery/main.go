// Command squery parses a StringQuery expression against a field set
// defined on the command line or in a config file, and prints the
// resulting condition tree.
//
//	squery --field name:text --field age:integer 'name: alice, bob; age: >30'
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/searchkit/stringquery"
	"github.com/searchkit/stringquery/export"
	"github.com/searchkit/stringquery/fields"
	"github.com/searchkit/stringquery/search"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:           "squery [query]",
		Short:         "Parse a StringQuery expression and print the condition tree",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file defining fields and limits")
	cmd.Flags().StringSlice("field", nil, "field definition as name:type (text, integer, decimal, date)")
	cmd.Flags().String("format", "json", "output format: json or query")
	cmd.Flags().Int("max-nesting-level", stringquery.DefaultMaxNestingLevel, "maximum group nesting depth")
	cmd.Flags().Int("max-group-count", stringquery.DefaultMaxGroupCount, "maximum sub-groups per group")
	cmd.Flags().Int("max-values-per-field", stringquery.DefaultMaxValuesPerField, "maximum values per field")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

		v := viper.New()
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				logger.Error().Err(err).Str("file", cfgFile).Msg("cannot read config file")
				return err
			}
		}

		fieldSet, err := buildFieldSet(v)
		if err != nil {
			logger.Error().Err(err).Msg("invalid field definitions")
			return err
		}

		query, err := readQuery(cmd, args)
		if err != nil {
			return err
		}

		cfg := stringquery.Config{
			MaxNestingLevel:   v.GetInt("max-nesting-level"),
			MaxGroupCount:     v.GetInt("max-group-count"),
			MaxValuesPerField: v.GetInt("max-values-per-field"),
		}
		cond, err := stringquery.NewProcessor(cfg, fieldSet).Process(query)
		if err != nil {
			for _, entry := range stringquery.ErrorReport(err) {
				logger.Error().
					Str("field", entry.Field).
					Str("path", entry.Path).
					Msg(entry.Message)
			}
			return err
		}

		switch v.GetString("format") {
		case "query":
			fmt.Fprintln(cmd.OutOrStdout(), export.StringExporter{}.Export(cond))
		case "json":
			out := export.JSONExporter{}.Export(cond)
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		default:
			return fmt.Errorf("unknown output format %q", v.GetString("format"))
		}
		return nil
	}
	return cmd
}

// buildFieldSet merges field definitions from the config file's "fields"
// table with any --field flags, flags winning on conflict.
func buildFieldSet(v *viper.Viper) (*search.FieldSet, error) {
	defs := make(map[string]string)
	for name, typeName := range v.GetStringMapString("fields") {
		defs[name] = typeName
	}
	for _, def := range v.GetStringSlice("field") {
		name, typeName, ok := strings.Cut(def, ":")
		if !ok {
			return nil, fmt.Errorf("invalid field definition %q, expected name:type", def)
		}
		defs[name] = typeName
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no fields defined, use --field or a config file")
	}

	configs := make([]*search.FieldConfig, 0, len(defs))
	for name, typeName := range defs {
		fieldType, ok := fields.ByName(typeName)
		if !ok {
			return nil, fmt.Errorf("field %q has unknown type %q", name, typeName)
		}
		configs = append(configs, &search.FieldConfig{Name: name, Type: fieldType})
	}
	return search.NewFieldSet("cli", configs...)
}

func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
