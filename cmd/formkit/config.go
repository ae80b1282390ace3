package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/agiangrant/formkit"
)

// runConfig implements 'formkit config'
func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	path := fs.String("config", "", "Config file (default formkit.toml)")
	initFile := fs.Bool("init", false, "Write a default config file")
	force := fs.Bool("force", false, "Overwrite an existing file with --init")
	fs.Parse(args)

	if *initFile {
		target := *path
		if target == "" {
			target = formkit.ConfigFile
		}
		if _, err := os.Stat(target); err == nil && !*force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
		if err := formkit.SaveConfig(target, formkit.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("  ✓ Created %s\n", target)
		return nil
	}

	cfg, err := formkit.LoadConfig(*path)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	os.Stdout.Write(data)
	return nil
}
