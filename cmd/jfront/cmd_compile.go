package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/compiler"
	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/parser"
)

// errFailed is returned after problems were printed, so that the exit
// status reflects the compilation without repeating a message.
var errFailed = errors.New("compilation failed")

func newCompileCmd() *cobra.Command {
	var classpath string
	var sourcepath string
	var outputDir string
	var sourceLevel string
	var workers int
	var maxErrors int
	var warnings bool
	var proceedOnError bool
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "compile <file|dir|archive>...",
		Short: "Compile Java sources to class files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := parser.LatestSourceLevel
			if sourceLevel != "" {
				l, err := parser.ParseSourceLevel(sourceLevel)
				if err != nil {
					return fmt.Errorf("parse source level: %w", err)
				}
				level = l
			}

			units, errs := compiler.CollectSources(args)
			for _, err := range errs {
				fmt.Fprintf(os.Stderr, "collect sources: %s\n", err)
			}
			if len(units) == 0 {
				return fmt.Errorf("collect sources: no .java files found")
			}

			dir, err := env.NewDirectory(env.SplitPath(classpath), env.SplitPath(sourcepath))
			if err != nil {
				return fmt.Errorf("open class path: %w", err)
			}
			defer dir.Close()

			opts := []compiler.Option{
				compiler.WithSourceLevel(level),
				compiler.WithWarnings(warnings),
				compiler.WithMaxErrors(maxErrors),
			}
			if proceedOnError {
				opts = append(opts, compiler.WithProceedOnError())
			}
			if checkOnly {
				opts = append(opts, compiler.WithCheckOnly())
			} else {
				if err := os.MkdirAll(outputDir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				opts = append(opts, compiler.WithConsumer(compiler.DirectoryConsumer{Root: outputDir}))
			}
			c := compiler.New(env.Chain{dir, env.Bootstrap()}, opts...)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			results := c.CompileParallel(ctx, units, workers)

			pp := format.NewProblemPrinter(os.Stderr)
			for _, u := range units {
				pp.AddSource(u.FileName, u.Contents)
			}
			for _, r := range results {
				if err := pp.Print(r.Problems); err != nil {
					return fmt.Errorf("print problems: %w", err)
				}
				if r.Abort != nil {
					fmt.Fprintf(os.Stderr, "%s: compilation aborted: %s\n", r.File, r.Abort.Reason)
				}
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", r.File, r.Err)
				}
			}

			s := compiler.Summarize(results)
			fmt.Fprintf(os.Stderr, "%d units, %d classes, %d errors, %d warnings", s.Units, s.Classes, s.Errors, s.Warnings)
			if s.Aborted > 0 || s.Cancelled > 0 {
				fmt.Fprintf(os.Stderr, ", %d aborted, %d cancelled", s.Aborted, s.Cancelled)
			}
			fmt.Fprintln(os.Stderr)

			if s.Errors > 0 || s.Aborted > 0 || s.Cancelled > 0 || len(errs) > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&classpath, "classpath", "c", "", "Class path: directories, .jar and .zip files")
	cmd.Flags().StringVarP(&sourcepath, "sourcepath", "s", "", "Source path searched for referenced types")
	cmd.Flags().StringVarP(&outputDir, "output", "d", "classes", "Directory for generated class files")
	cmd.Flags().StringVar(&sourceLevel, "source", "", "Java source level, e.g. 8 or 17 (default latest)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 1, "Number of units compiled concurrently")
	cmd.Flags().IntVar(&maxErrors, "max-errors", 100, "Abort a unit after this many errors (0 for no limit)")
	cmd.Flags().BoolVarP(&warnings, "warnings", "w", true, "Report warnings")
	cmd.Flags().BoolVar(&proceedOnError, "proceed-on-error", false, "Write class files for units with errors")
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report problems, do not generate class files")

	return cmd
}
