// Command debug_tokens prints the token stream produced by
// internal/lexer for a source file, one token per line. It exists
// purely as a development aid for inspecting lexer output without
// running the whole pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/tinyrange/minicc/internal/lexer"
	"github.com/tinyrange/minicc/internal/token"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_tokens <file>")
		os.Exit(2)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "debug_tokens: %v\n", err)
		os.Exit(1)
	}

	l := lexer.New(string(data))
	for {
		t, err := l.Next()
		if err != nil {
			fmt.Fprintf(os.Stderr, "debug_tokens: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%-12s %-10q line %d\n", t.Kind, t.Lexeme, t.Line)
		if t.Kind == token.EOF {
			break
		}
	}
}
