package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/config"
	"modpack-launcher/logger"
	"modpack-launcher/meta"
)

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List installable Minecraft release versions",
	Run: func(cmd *cobra.Command, _ []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := config.LoadConfig(".")
		if err != nil {
			logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
		}

		client := meta.NewClient(cfg.UserAgent)
		releases, err := client.ReleaseVersions()
		if err != nil {
			logger.Log.Fatalw("Failed to fetch version manifest", zap.Error(err))
		}
		if limit > 0 && len(releases) > limit {
			releases = releases[:limit]
		}
		for _, release := range releases {
			fmt.Println(release)
		}
	},
}

// loadersCmd lists Fabric loader builds
var loadersCmd = &cobra.Command{
	Use:   "loaders",
	Short: "List Fabric loader builds",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			logger.Log.Fatalw("Failed to load configuration", zap.Error(err))
		}

		client := meta.NewClient(cfg.UserAgent)
		loaders, err := client.FabricLoaderVersions()
		if err != nil {
			logger.Log.Fatalw("Failed to fetch fabric loader versions", zap.Error(err))
		}
		for _, loader := range loaders {
			marker := " "
			if loader.Stable {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, loader.Version)
		}
		fmt.Println("\n* = stable build")
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.AddCommand(loadersCmd)

	versionsCmd.Flags().IntP("limit", "l", 20, "Number of releases to show (0 = all)")
}
