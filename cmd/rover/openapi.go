package main

import (
	"fmt"
	"os"

	"github.com/aretw0/rover"
	httpAdapter "github.com/aretw0/rover/pkg/adapters/http"
	"github.com/aretw0/rover/pkg/adapters/memory"
	"github.com/spf13/cobra"
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Print the OpenAPI document for the selected pattern",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		robot, err := rover.New(cfg.Pattern, rover.WithLogger(logger))
		if err != nil {
			return err
		}

		doc := httpAdapter.NewServer(robot,
			httpAdapter.WithVersion(rover.Version),
			httpAdapter.WithEvents(memory.NewBroadcaster()),
		).Document()
		if err := doc.Validate(cmd.Context()); err != nil {
			return fmt.Errorf("generated document is invalid: %w", err)
		}

		var data []byte
		if format, _ := cmd.Flags().GetString("format"); format == "json" {
			data, err = doc.MarshalJSON()
		} else {
			data, err = httpAdapter.MarshalYAML(doc)
		}
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(openapiCmd)
	openapiCmd.Flags().String("format", "yaml", "Output format: yaml or json")
}
