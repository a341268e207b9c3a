package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ecuations-d/internal/mission"
)

var flagSchemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the mission descriptor JSON schema",
	Long: `Print the JSON schema of the mission descriptor, or write it to a file.
Editors can use it to validate hand-written mission files.

Examples:
  ecuations schema
  ecuations schema --out ./missions/mission.schema.json`,
	Run: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&flagSchemaOut, "out", "o", "", "Write the schema to this file instead of stdout")
}

func runSchema(_ *cobra.Command, _ []string) {
	if flagSchemaOut != "" {
		if err := mission.WriteSchema(flagSchemaOut); err != nil {
			fatal("writing schema: %v", err)
		}
		fmt.Printf("Schema written to %s\n", flagSchemaOut)
		return
	}

	data, err := json.MarshalIndent(mission.Schema(), "", "  ")
	if err != nil {
		fatal("marshal schema: %v", err)
	}
	fmt.Println(string(data))
}
