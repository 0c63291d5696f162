// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"dining-concierge/pkg/registry"
)

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	removeCmd := flag.NewFlagSet("remove", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	addPath := addCmd.String("path", "configs/catalog.json", "Path to catalog file")
	addKind := addCmd.String("kind", "", "Entry kind (location or cuisine)")
	addValue := addCmd.String("value", "", "Entry to add (e.g., thai)")

	removePath := removeCmd.String("path", "configs/catalog.json", "Path to catalog file")
	removeKind := removeCmd.String("kind", "", "Entry kind (location or cuisine)")
	removeValue := removeCmd.String("value", "", "Entry to remove")

	validatePath := validateCmd.String("path", "configs/catalog.json", "Path to catalog file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *addKind == "" || *addValue == "" {
			fmt.Println("Error: kind and value are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if err := edit(*addPath, func(c *registry.Catalog) error { return c.Add(*addKind, *addValue) }); err != nil {
			fmt.Printf("Error adding %s: %v\n", *addKind, err)
			os.Exit(1)
		}
		fmt.Printf("Added %s: %s\n", *addKind, *addValue)

	case "remove":
		removeCmd.Parse(os.Args[2:])
		if *removeKind == "" || *removeValue == "" {
			fmt.Println("Error: kind and value are required for remove.")
			removeCmd.Usage()
			os.Exit(1)
		}
		if err := edit(*removePath, func(c *registry.Catalog) error { return c.Remove(*removeKind, *removeValue) }); err != nil {
			fmt.Printf("Error removing %s: %v\n", *removeKind, err)
			os.Exit(1)
		}
		fmt.Printf("Removed %s: %s\n", *removeKind, *removeValue)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		cat, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d locations and %d cuisines.\n", len(cat.Locations), len(cat.Cuisines))

	case "help":
		fallthrough
	default:
		help()
	}
}

// edit loads the catalog (or the default one when the file does not exist yet),
// applies fn and saves it back.
func edit(path string, fn func(*registry.Catalog) error) error {
	cat, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = registry.Default()
	}

	if err := fn(cat); err != nil {
		return err
	}
	if err := cat.Validate(); err != nil {
		return err
	}

	cat.LastUpdated = time.Now().Format("2006-01-02")
	return registry.SaveRegistry(cat, path)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a supported location or cuisine
  remove   Remove a location or cuisine
  validate Validate the catalog file
  help     Show this help message

Examples:
  registry-updater add -kind cuisine -value thai
  registry-updater remove -kind location -value "new york"
  registry-updater validate -path configs/catalog.json

Use 'registry-updater <command> -h' for more information about a command.
`)
}
