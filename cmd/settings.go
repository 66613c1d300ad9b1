package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/launcher"
	"modpack-launcher/logger"
)

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show launcher settings",
	Run: func(cmd *cobra.Command, _ []string) {
		instanceName, _ := cmd.Flags().GetString("instance")

		_, _, svc, release := bootstrap(".")
		defer release()

		settings, err := svc.Settings()
		if err != nil {
			logger.Log.Fatalw("Failed to load settings", zap.Error(err))
		}
		if instanceName != "" {
			override, err := svc.InstanceSettings(instanceName)
			if err != nil {
				logger.Log.Fatalw("Failed to load instance settings", zap.String("instance", instanceName), zap.Error(err))
			}
			if override == nil {
				fmt.Printf("Instance %q uses the global settings:\n", instanceName)
			} else {
				fmt.Printf("Instance %q overrides the global settings:\n", instanceName)
				settings = *override
			}
		}

		javaPath := settings.JavaPath
		if javaPath == "" {
			javaPath = "(system default)"
		}
		jvmArgs := settings.JVMArgs
		if jvmArgs == "" {
			jvmArgs = "(none)"
		}
		fmt.Printf("Java path:  %s\n", javaPath)
		fmt.Printf("Memory:     %d MB\n", settings.MemoryMB)
		fmt.Printf("JVM args:   %s\n", jvmArgs)
		fmt.Printf("Fullscreen: %v\n", settings.Fullscreen)
	},
}

// setSettingsCmd updates the global settings, or an instance override when
// --instance is given
var setSettingsCmd = &cobra.Command{
	Use:   "set",
	Short: "Update launcher settings",
	Run: func(cmd *cobra.Command, _ []string) {
		instanceName, _ := cmd.Flags().GetString("instance")

		_, _, svc, release := bootstrap(".")
		defer release()

		settings, err := svc.Settings()
		if err != nil {
			logger.Log.Fatalw("Failed to load settings", zap.Error(err))
		}
		if instanceName != "" {
			// Start from the existing override when there is one
			override, err := svc.InstanceSettings(instanceName)
			if err != nil {
				logger.Log.Fatalw("Failed to load instance settings", zap.String("instance", instanceName), zap.Error(err))
			}
			if override != nil {
				settings = *override
			}
		}

		if cmd.Flags().Changed("java-path") {
			settings.JavaPath, _ = cmd.Flags().GetString("java-path")
		}
		if cmd.Flags().Changed("memory") {
			settings.MemoryMB, _ = cmd.Flags().GetInt("memory")
		}
		if cmd.Flags().Changed("jvm-args") {
			settings.JVMArgs, _ = cmd.Flags().GetString("jvm-args")
		}
		if cmd.Flags().Changed("fullscreen") {
			settings.Fullscreen, _ = cmd.Flags().GetBool("fullscreen")
		}

		if instanceName != "" {
			if err := svc.SaveInstanceSettings(instanceName, &settings); err != nil {
				logger.Log.Fatalw("Failed to save instance settings", zap.String("instance", instanceName), zap.Error(err))
			}
			fmt.Printf("Settings saved for instance %q.\n", instanceName)
			return
		}
		if err := svc.SaveSettings(settings); err != nil {
			logger.Log.Fatalw("Failed to save settings", zap.Error(err))
		}
		fmt.Println("Settings saved.")
	},
}

// clearSettingsCmd removes an instance's settings override
var clearSettingsCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove an instance's settings override",
	Run: func(cmd *cobra.Command, _ []string) {
		instanceName, _ := cmd.Flags().GetString("instance")
		if instanceName == "" {
			logger.Log.Fatalw("The --instance flag is required")
		}

		_, _, svc, release := bootstrap(".")
		defer release()

		if err := svc.SaveInstanceSettings(instanceName, nil); err != nil {
			logger.Log.Fatalw("Failed to clear instance settings", zap.String("instance", instanceName), zap.Error(err))
		}
		fmt.Printf("Instance %q now uses the global settings.\n", instanceName)
	},
}

// detectJavaCmd scans the system for java installations
var detectJavaCmd = &cobra.Command{
	Use:   "detect-java",
	Short: "Scan the system for Java installations",
	Run: func(_ *cobra.Command, _ []string) {
		paths := launcher.DetectJavaInstallations()
		if len(paths) == 0 {
			fmt.Println("No Java installations found.")
			return
		}
		for _, path := range paths {
			fmt.Println(path)
		}
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(setSettingsCmd)
	settingsCmd.AddCommand(clearSettingsCmd)
	settingsCmd.AddCommand(detectJavaCmd)

	settingsCmd.Flags().String("instance", "", "Show settings for a specific instance")
	setSettingsCmd.Flags().String("instance", "", "Update settings for a specific instance")
	clearSettingsCmd.Flags().String("instance", "", "Instance whose override to remove")
	setSettingsCmd.Flags().String("java-path", "", "Path to the java binary")
	setSettingsCmd.Flags().Int("memory", 0, "Memory allocation in MB")
	setSettingsCmd.Flags().String("jvm-args", "", "Extra JVM arguments")
	setSettingsCmd.Flags().Bool("fullscreen", false, "Launch fullscreen")
}
