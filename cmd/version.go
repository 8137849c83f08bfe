package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the sealbox version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		banner := figure.NewColorFigure("sealbox", "alligator2", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Printf("%s sealbox %s\n", color.GreenString("✓"), Version)
	},
}
