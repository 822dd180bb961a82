package main

import (
	"fmt"
	"os"

	"github.com/erraggy/envoymerge"
	"github.com/erraggy/envoymerge/cmd/envoymerge/commands"
)

// commandNames are the names offered by suggestCommand.
var commandNames = []string{"compile", "discover", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("envoymerge v%s\n", envoymerge.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "compile":
		err = commands.HandleCompile(os.Args[2:])
	case "discover":
		err = commands.HandleDiscover(os.Args[2:])
	case "mcp":
		err = commands.HandleMCP(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the known command closest to input, or "" when
// none is within edit distance 2.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`envoymerge - Envoy Configuration Merger

Usage:
  envoymerge <command> [options]

Commands:
  compile     Merge service routes and clusters into a base Envoy document
  discover    List what each service directory would contribute
  mcp         Serve the compile and discover tools over MCP stdio
  version     Show version information
  help        Show this help message

Examples:
  envoymerge compile -b envoy.yaml svc/users svc/billing
  envoymerge compile -b envoy.yaml -o out/envoy.yaml --folder-name proxy svc/*
  envoymerge discover --format json -b envoy.yaml svc/users

Run 'envoymerge <command> --help' for more information on a command.`)
}
