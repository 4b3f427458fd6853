package main

import (
	"fmt"

	"github.com/aretw0/rover"
	"github.com/aretw0/rover/pkg/domain"
	"github.com/aretw0/rover/pkg/ports"
	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the available robot implementations",
	Run: func(cmd *cobra.Command, args []string) {
		reg := rover.DefaultRegistry(nil)
		for _, p := range reg.All() {
			undo := ""
			if _, ok := p.New(domain.Origin).(ports.Undoer); ok {
				undo = " [undo]"
			}
			fmt.Printf("%-10s %-6s %s%s\n", p.Name(), p.Shape(), p.Description(), undo)
		}
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
