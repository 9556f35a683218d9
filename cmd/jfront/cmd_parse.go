package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java/parser"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool
	var sourceLevel string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .java file and print its syntax tree or syntax problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			opts := []parser.Option{parser.WithFile(filename)}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			if sourceLevel != "" {
				level, err := parser.ParseSourceLevel(sourceLevel)
				if err != nil {
					return fmt.Errorf("parse source level: %w", err)
				}
				opts = append(opts, parser.WithSourceLevel(level))
			}
			p := parser.ParseCompilationUnit(bytes.NewReader(data), opts...)
			unit := p.Finish()

			switch outputFormat {
			case "json":
				if err := format.NewASTJSONEncoder(os.Stdout).Encode(unit); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Println()
			case "problems":
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			pp := format.NewProblemPrinter(os.Stderr)
			pp.AddSource(filename, data)
			if err := pp.Print(p.Problems()); err != nil {
				return fmt.Errorf("print problems: %w", err)
			}
			if p.ErrorCount() > 0 {
				return fmt.Errorf("parse java file: %d syntax errors", p.ErrorCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, problems)")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "Attach comments to the syntax tree")
	cmd.Flags().StringVar(&sourceLevel, "source", "", "Java source level (default latest)")

	return cmd
}
