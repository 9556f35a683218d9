package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/classfile"
	"github.com/dhamidi/jfront/compiler"
	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/lookup"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string
	var classpath string

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump a .class file, or the class files generated for a .java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			var classes []*classfile.ClassFile
			switch filepath.Ext(filename) {
			case ".class":
				cf, err := classfile.ParseFile(filename)
				if err != nil {
					return fmt.Errorf("parse class file: %w", err)
				}
				classes = append(classes, cf)
			case ".java":
				generated, err := compileForDump(filename, classpath)
				if err != nil {
					return err
				}
				classes = generated
			default:
				return fmt.Errorf("unsupported file extension: %s (expected .class or .java)", filepath.Ext(filename))
			}

			for _, cf := range classes {
				var encoder format.Encoder
				switch dumpFormat {
				case "line":
					encoder = format.NewLineEncoder(os.Stdout)
				case "json":
					encoder = format.NewJSONEncoder(os.Stdout)
				case "spew":
					spew.Dump(cf)
					continue
				default:
					return fmt.Errorf("unknown format: %s", dumpFormat)
				}
				if err := encoder.Encode(cf); err != nil {
					return fmt.Errorf("encode %s: %w", dumpFormat, err)
				}
				if dumpFormat == "json" {
					fmt.Println()
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "Output format (line, json, spew)")
	cmd.Flags().StringVarP(&classpath, "classpath", "c", "", "Class path used to compile .java files")

	return cmd
}

// compileForDump compiles one source file in memory. Class files are kept
// even when the unit has errors, so problem methods can be inspected.
func compileForDump(filename, classpath string) ([]*classfile.ClassFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read java file: %w", err)
	}
	dir, err := env.NewDirectory(env.SplitPath(classpath), nil)
	if err != nil {
		return nil, fmt.Errorf("open class path: %w", err)
	}
	defer dir.Close()

	consumer := compiler.NewMemoryConsumer()
	c := compiler.New(env.Chain{dir, env.Bootstrap()},
		compiler.WithConsumer(consumer),
		compiler.WithProceedOnError())
	results := c.Compile(context.Background(), []*lookup.SourceUnit{{FileName: filename, Contents: data}})

	pp := format.NewProblemPrinter(os.Stderr)
	pp.AddSource(filename, data)
	for _, r := range results {
		if err := pp.Print(r.Problems); err != nil {
			return nil, fmt.Errorf("print problems: %w", err)
		}
		if r.Err != nil {
			return nil, fmt.Errorf("compile %s: %w", filename, r.Err)
		}
	}

	var classes []*classfile.ClassFile
	for _, name := range consumer.Names() {
		raw, _ := consumer.Get(name)
		cf, err := classfile.Parse(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parse generated %s: %w", name, err)
		}
		classes = append(classes, cf)
	}
	return classes, nil
}
