// Package main generates the CLI reference and the mock server's OpenAPI
// document.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra/doc"

	"github.com/donaldgifford/partsearch/cmd/partsearch/cmd"
	"github.com/donaldgifford/partsearch/internal/api"
	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

func main() {
	output := flag.String("output", "docs", "output directory for generated docs")
	flag.Parse()

	if err := generate(*output); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("docs generated in %s/\n", *output)
}

func generate(output string) error {
	cliDir := filepath.Join(output, "cli")
	if err := os.MkdirAll(cliDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true
	if err := doc.GenMarkdownTree(root, cliDir); err != nil {
		return fmt.Errorf("generating CLI docs: %w", err)
	}

	catalog, err := fixtures.Default()
	if err != nil {
		return err
	}
	spec, err := api.New(catalog).API().OpenAPI().YAML()
	if err != nil {
		return fmt.Errorf("rendering OpenAPI document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(output, "openapi.yaml"), spec, 0o600); err != nil {
		return fmt.Errorf("writing OpenAPI document: %w", err)
	}
	return nil
}
