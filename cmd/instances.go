package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/logger"
	"modpack-launcher/meta"
)

// instancesCmd represents the instances command
var instancesCmd = &cobra.Command{
	Use:   "instances",
	Short: "List local instances",
	Run: func(_ *cobra.Command, _ []string) {
		_, _, svc, release := bootstrap(".")
		defer release()

		instances, err := svc.Instances()
		if err != nil {
			logger.Log.Fatalw("Failed to list instances", zap.Error(err))
		}
		if len(instances) == 0 {
			fmt.Println("No instances yet. Install a modpack with 'browse' or 'install'.")
			return
		}

		fmt.Printf("%-32s %-10s %-8s %s\n", "Name", "Version", "Loader", "Pack")
		for _, instance := range instances {
			pack := instance.PackSlug
			if pack == "" {
				pack = "-"
			}
			fmt.Printf("%-32s %-10s %-8s %s\n",
				truncate(instance.Name, 30),
				instance.GameVersion,
				instance.Loader,
				pack,
			)
		}
	},
}

// createInstanceCmd creates an empty instance without installing a pack
var createInstanceCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty instance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		gameVersion, _ := cmd.Flags().GetString("game-version")
		loader, _ := cmd.Flags().GetString("loader")
		loaderVersion, _ := cmd.Flags().GetString("loader-version")

		cfg, _, svc, release := bootstrap(".")
		defer release()

		loader, gameVersion = applyConfigDefaults(cfg, loader, gameVersion)
		if gameVersion == "" {
			logger.Log.Fatalw("No game version given and DEFAULT_GAME_VERSION is not set")
		}
		if loader == "fabric" && loaderVersion == "" {
			loaderVersion = resolveFabricLoader(cfg.UserAgent)
		}

		finalName, err := svc.CreateInstance(args[0], gameVersion, loader, loaderVersion)
		if err != nil {
			logger.Log.Fatalw("Failed to create instance", zap.Error(err))
		}
		fmt.Printf("Created instance %q (%s, %s)\n", finalName, gameVersion, loader)
	},
}

// openInstanceCmd opens an instance folder in the file manager
var openInstanceCmd = &cobra.Command{
	Use:   "open [name]",
	Short: "Open an instance folder in the file manager",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, _, svc, release := bootstrap(".")
		defer release()

		if err := svc.OpenInstanceFolder(args[0]); err != nil {
			logger.Log.Fatalw("Failed to open instance folder", zap.String("instance", args[0]), zap.Error(err))
		}
	},
}

// modsInstanceCmd lists the mods recorded for an instance
var modsInstanceCmd = &cobra.Command{
	Use:   "mods [name]",
	Short: "List the mods installed in an instance",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, _, svc, release := bootstrap(".")
		defer release()

		mods, err := svc.InstalledMods(args[0])
		if err != nil {
			logger.Log.Fatalw("Failed to list installed mods", zap.Error(err))
		}
		if len(mods) == 0 {
			fmt.Println("No mods installed.")
			return
		}
		for _, mod := range mods {
			title := mod.Title
			if title == "" {
				title = mod.FileName
			}
			fmt.Printf("%-40s %s\n", truncate(title, 38), mod.FileName)
		}
	},
}

// iconInstanceCmd prints the path of an instance's extracted icon
var iconInstanceCmd = &cobra.Command{
	Use:   "icon [name]",
	Short: "Show the path of an instance's icon",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, _, svc, release := bootstrap(".")
		defer release()

		iconPath := svc.InstanceIcon(args[0])
		if iconPath == "" {
			fmt.Printf("Instance %q has no icon.\n", args[0])
			return
		}
		fmt.Println(iconPath)
	},
}

// resolveFabricLoader picks the newest stable Fabric loader build. Instance
// creation still works offline; the loader version is left unpinned then.
func resolveFabricLoader(userAgent string) string {
	loaders, err := meta.NewClient(userAgent).FabricLoaderVersions()
	if err != nil {
		logger.Log.Warnw("Failed to fetch fabric loader versions", zap.Error(err))
		return ""
	}
	loader, err := meta.LatestStableFabricLoader(loaders)
	if err != nil {
		logger.Log.Warnw("No fabric loader versions available", zap.Error(err))
		return ""
	}
	return loader.Version
}

func init() {
	rootCmd.AddCommand(instancesCmd)
	instancesCmd.AddCommand(createInstanceCmd)
	instancesCmd.AddCommand(openInstanceCmd)
	instancesCmd.AddCommand(modsInstanceCmd)
	instancesCmd.AddCommand(iconInstanceCmd)

	createInstanceCmd.Flags().StringP("game-version", "g", "", "Minecraft version (default: DEFAULT_GAME_VERSION)")
	createInstanceCmd.Flags().StringP("loader", "l", "", "Mod loader: vanilla or fabric (default: DEFAULT_LOADER)")
	createInstanceCmd.Flags().String("loader-version", "", "Explicit loader build (default: latest stable)")
}
