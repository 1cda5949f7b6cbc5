// cmd/tcfold/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"valuefold/internal/diag"
	"valuefold/internal/exprparse"
	"valuefold/internal/fold"
	"valuefold/internal/lexer"
)

const VERSION = "0.1.0"

// commandAliases lets short forms stand in for the full subcommand name,
// the way the teacher's CLI does for run/repl/test/build.
var commandAliases = map[string]string{
	"e": "eval",
	"c": "check",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	if cmd == "--help" || cmd == "-h" || cmd == "help" {
		showUsage()
		return
	}
	if cmd == "--version" || cmd == "-v" || cmd == "version" {
		showVersion()
		return
	}

	switch cmd {
	case "eval":
		evalCommand(args[1:])
	case "check":
		checkCommand(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "tcfold: unknown command %q\n\n", args[0])
		if s := suggestCommand(cmd); s != "" {
			fmt.Fprintf(os.Stderr, "did you mean %q?\n\n", s)
		}
		showUsage()
		os.Exit(1)
	}
}

// evalCommand folds the expression given either as a literal argument or
// read from a file with -f, then prints its folded StringRepr.
func evalCommand(args []string) {
	src, err := readExprArgs(args, "eval")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	toks := lexer.NewScanner(src).ScanTokens()
	p := exprparse.NewParser(toks, nil, src)

	v := p.ParseExpression()
	if len(p.Errors) > 0 {
		for _, e := range p.Errors {
			fmt.Fprintf(os.Stderr, "parse error: %s\n", e.Error())
		}
		os.Exit(1)
	}

	sink := &diag.Sink{}
	folder := fold.NewFolder(sink)
	got := folder.GetValueRefdLast(fold.NewRefChain(), v)

	if sink.HasErrors() {
		for _, e := range sink.Errors {
			fmt.Fprintf(os.Stderr, "fold error: %s\n", e.Error())
		}
		os.Exit(1)
	}
	for _, w := range sink.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
	}

	fmt.Println(got.StringRepr())
}

// checkCommand parses the expression and reports syntax errors only,
// mirroring the teacher's "check" subcommand: no evaluation, exit 0 on a
// clean parse.
func checkCommand(args []string) {
	src, err := readExprArgs(args, "check")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	toks := lexer.NewScanner(src).ScanTokens()
	p := exprparse.NewParser(toks, nil, src)
	_ = p.ParseExpression()

	if len(p.Errors) > 0 {
		for _, e := range p.Errors {
			fmt.Fprintf(os.Stderr, "%s\n", e.Error())
		}
		os.Exit(1)
	}
	fmt.Println("syntax is valid")
}

// readExprArgs resolves the expression source from either "-f <file>" or a
// single positional argument, the way checkSyntax/evalCode in the teacher
// CLI take either a filename or inline text.
func readExprArgs(args []string, cmd string) (string, error) {
	if len(args) == 2 && args[0] == "-f" {
		b, err := os.ReadFile(args[1])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[1], err)
		}
		return string(b), nil
	}
	if len(args) == 1 && args[0] != "-f" {
		return args[0], nil
	}
	return "", fmt.Errorf("usage: tcfold %s <expression> | -f <file>", cmd)
}

func suggestCommand(cmd string) string {
	known := []string{"eval", "check", "help", "version"}
	best, bestDist := "", 1<<30
	for _, k := range known {
		d := levenshteinDistance(cmd, k)
		if d < bestDist {
			best, bestDist = k, d
		}
	}
	if bestDist <= 2 {
		return best
	}
	return ""
}

func levenshteinDistance(a, b string) int {
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func showUsage() {
	fmt.Println("tcfold - constant folding for TTCN-3-style value expressions")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tcfold eval <expr>          Fold an expression and print its value   (alias: e)")
	fmt.Println("  tcfold eval -f <file>       Fold the expression contained in a file")
	fmt.Println("  tcfold check <expr>         Check syntax only, no folding            (alias: c)")
	fmt.Println("  tcfold check -f <file>      Check syntax of a file's contents")
	fmt.Println("  tcfold help                 Show this message")
	fmt.Println("  tcfold --version            Show version")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println(`  tcfold eval "2 + 3 * 4"`)
	fmt.Println(`  tcfold e "bit2int('1011'B)"`)
	fmt.Println(`  tcfold check -f module.ttcn3expr`)
}

func showVersion() {
	fmt.Printf("tcfold %s\n", VERSION)
}
