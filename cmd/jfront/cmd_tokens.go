package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/java/parser"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the tokens of a .java file, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			lexer := parser.NewLexer(data, filename)
			for {
				tok := lexer.NextToken()
				if tok.Kind == parser.TokenEOF {
					return nil
				}
				fmt.Printf("%d:%d\t%s", tok.Span.Start.Line, tok.Span.Start.Column, tok)
				if tok.Err != 0 {
					fmt.Printf("\terror %d", tok.Err)
				}
				fmt.Println()
			}
		},
	}
}
