package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/launcher"
	"modpack-launcher/logger"
	"modpack-launcher/session"
)

// favoritesCmd represents the favorites command
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "List starred mods",
	Run: func(_ *cobra.Command, _ []string) {
		_, _, _, release := bootstrap(".")
		defer release()

		store := launcher.FavoritesStore{}
		favorites, err := store.List()
		if err != nil {
			logger.Log.Fatalw("Failed to list favorites", zap.Error(err))
		}
		if len(favorites) == 0 {
			fmt.Println("No favorites yet. Star mods with ctrl+f in the browser.")
			return
		}
		for i, fav := range favorites {
			fmt.Printf("%2d. %-40s %s\n", i+1, truncate(fav.Title, 38), fav.ProjectID)
		}
	},
}

// installFavoritesCmd installs every favorite into an instance
var installFavoritesCmd = &cobra.Command{
	Use:   "install [instance]",
	Short: "Install all favorites into an instance",
	Long: `Install every starred mod into the named instance, one download at a
time. Favorites whose file is already present are skipped; failures are
logged and the remaining favorites still install.`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		instanceName := args[0]

		_, client, svc, release := bootstrap(".")
		defer release()

		favorites := session.NewFavorites(
			launcher.FavoritesStore{},
			session.NewVersionCache(client),
			svc,
			logger.Log,
		)

		summary, err := favorites.InstallAll(instanceName, installedFileSet(svc, instanceName))
		if err != nil {
			logger.Log.Fatalw("Failed to install favorites", zap.Error(err))
		}
		fmt.Printf("Installed %d, skipped %d already present, %d failed\n",
			summary.Installed, summary.Skipped, summary.Failed)
	},
}

func init() {
	rootCmd.AddCommand(favoritesCmd)
	favoritesCmd.AddCommand(installFavoritesCmd)
}
