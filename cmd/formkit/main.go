package main

import (
	"fmt"
	"os"

	"github.com/agiangrant/formkit"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "demo":
		err = runDemo(args)
	case "config":
		err = runConfig(args)
	case "version", "-v", "--version":
		fmt.Printf("formkit version %s (%s)\n", formkit.Version, formkit.CurrentPlatform())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`formkit - retained widget toolkit

Usage: formkit <command> [options]

Commands:
  demo      Open a window with the reference controls
  config    Print the effective configuration, or write a default one
  version   Print version information
  help      Show this help message

Examples:
  formkit demo                        Run on the native renderer or the terminal
  formkit demo --backend terminal     Force the terminal backend
  formkit config --init               Write formkit.toml with default values

Configuration:
  Settings are read from formkit.toml in the current directory.
  Use --config to read another file.`)
}
