package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	root := &cobra.Command{
		Use:          "tickerlens",
		Short:        "Technical analysis and portfolio monitoring for stock symbols",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", cfgPath, "path to the YAML config file")

	root.AddCommand(newServeCmd(&cfgPath))
	root.AddCommand(newAnalyzeCmd(&cfgPath))
	root.AddCommand(newProfilesCmd())
	root.SetVersionTemplate(fmt.Sprintf("tickerlens %s\n", version))
	return root
}
