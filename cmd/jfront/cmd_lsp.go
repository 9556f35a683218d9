package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/compiler"
	"github.com/dhamidi/jfront/java/env"
	"github.com/dhamidi/jfront/java/lookup"
	"github.com/dhamidi/jfront/lsp"
)

func newLSPCmd() *cobra.Command {
	var classpath string
	var warnings bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			var libs lookup.NameEnvironment
			if classpath != "" {
				dir, err := env.NewDirectory(env.SplitPath(classpath), nil)
				if err != nil {
					return fmt.Errorf("open class path: %w", err)
				}
				defer dir.Close()
				libs = dir
			}
			server := lsp.NewServer(version, libs, compiler.WithWarnings(warnings))
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&classpath, "classpath", "c", "", "Class path for library types")
	cmd.Flags().BoolVarP(&warnings, "warnings", "w", true, "Publish warnings")

	return cmd
}
