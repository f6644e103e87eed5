package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "navkit-demo",
		Short: "Demo server for navkit navigation components",
		Long: `navkit-demo hosts a small server-driven page built with navkit:
a navbar with an exact-match home link, a prefix-match docs link, and
an in-page anchor link that smooth-scrolls through the lazily loaded
scroll helper.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("navkit-demo %s (%s)\n", version, commit)
		},
	}
}
