package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command; subcommands register themselves in init().
var rootCmd = &cobra.Command{
	Use:   "modpack-launcher",
	Short: "Browse, install, and manage Minecraft modpack instances",
	Long: `A Minecraft instance launcher: search the Modrinth registry for
modpacks and mods, install them into local instances, and manage
instances, favorites, and saved servers.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// No subcommand: open the interactive browser
		browseCmd.Run(browseCmd, []string{})
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
