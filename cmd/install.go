package cmd

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/logger"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install [slug]",
	Short: "Install a modpack by its registry slug",
	Long: `Install a modpack without the interactive browser: resolve the pack by
its Modrinth slug, create an instance for it, and download the pack file.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug := args[0]
		instanceName, _ := cmd.Flags().GetString("name")
		versionID, _ := cmd.Flags().GetString("version-id")
		gameVersion, _ := cmd.Flags().GetString("game-version")
		if instanceName == "" {
			instanceName = slug
		}

		_, _, svc, release := bootstrap(".")
		defer release()

		// Print bus progress as it arrives; the subscription is cancelled
		// once the install returns.
		progress, cancel := svc.Bus().Subscribe()
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ev := range progress {
				fmt.Printf("  %3d%%  %s\n", ev.Progress, ev.Stage)
			}
		}()

		result, err := svc.InstallModpack(slug, instanceName, versionID, gameVersion)
		cancel()
		wg.Wait()
		if err != nil {
			logger.Log.Fatalw("Failed to install modpack", zap.String("slug", slug), zap.Error(err))
		}
		fmt.Printf("Installed %q as instance %q\n", slug, result.InstanceName)
	},
}

// importCmd installs a modpack from a local pack file
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a local .mrpack or .zip pack file into a new instance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filePath := args[0]
		instanceName, _ := cmd.Flags().GetString("name")
		gameVersion, _ := cmd.Flags().GetString("game-version")
		if instanceName == "" {
			instanceName = "imported-pack"
		}

		_, _, svc, release := bootstrap(".")
		defer release()

		result, err := svc.InstallModpackFromFile(filePath, instanceName, gameVersion)
		if err != nil {
			logger.Log.Fatalw("Failed to import pack file", zap.String("file", filePath), zap.Error(err))
		}
		fmt.Printf("Imported %s as instance %q\n", filePath, result.InstanceName)
	},
}

// installModCmd installs a single mod into an existing instance
var installModCmd = &cobra.Command{
	Use:   "install-mod [slug] [instance]",
	Short: "Install a mod into an existing instance",
	Long: `Resolve a mod by its Modrinth slug and download the newest version
compatible with the instance's loader and Minecraft version.`,
	Args: cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		slug, instanceName := args[0], args[1]

		_, client, svc, release := bootstrap(".")
		defer release()

		instances, err := svc.Instances()
		if err != nil {
			logger.Log.Fatalw("Failed to list instances", zap.Error(err))
		}
		var loaders, gameVersions []string
		found := false
		for _, instance := range instances {
			if instance.Name == instanceName {
				found = true
				if instance.Loader != "" && instance.Loader != "vanilla" {
					loaders = []string{instance.Loader}
				}
				if instance.GameVersion != "" {
					gameVersions = []string{instance.GameVersion}
				}
				break
			}
		}
		if !found {
			logger.Log.Fatalw("Instance does not exist", zap.String("instance", instanceName))
		}

		project, err := client.GetProject(slug)
		if err != nil {
			logger.Log.Fatalw("Failed to resolve project", zap.String("slug", slug), zap.Error(err))
		}
		versions, err := client.GetProjectVersions(project.ProjectID(), loaders, gameVersions)
		if err != nil {
			logger.Log.Fatalw("Failed to get mod versions", zap.String("slug", slug), zap.Error(err))
		}
		if len(versions) == 0 {
			logger.Log.Fatalw("No compatible versions",
				zap.String("slug", slug), zap.Strings("loaders", loaders), zap.Strings("game_versions", gameVersions))
		}

		if err := svc.InstallMod(instanceName, *project, versions[0]); err != nil {
			logger.Log.Fatalw("Failed to install mod", zap.String("slug", slug), zap.Error(err))
		}
		fmt.Printf("Installed %s %s into %q\n", project.Title, versions[0].VersionNumber, instanceName)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(installModCmd)

	installCmd.Flags().StringP("name", "n", "", "Instance name (default: the pack slug)")
	installCmd.Flags().String("version-id", "", "Explicit pack version id (default: newest)")
	installCmd.Flags().StringP("game-version", "g", "", "Preferred Minecraft version")

	importCmd.Flags().StringP("name", "n", "", "Instance name")
	importCmd.Flags().StringP("game-version", "g", "", "Minecraft version for the instance")
}
