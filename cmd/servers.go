package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modpack-launcher/logger"
)

// serversCmd represents the servers command
var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List saved multiplayer servers",
	Run: func(_ *cobra.Command, _ []string) {
		_, _, svc, release := bootstrap(".")
		defer release()

		servers, err := svc.Servers()
		if err != nil {
			logger.Log.Fatalw("Failed to list servers", zap.Error(err))
		}
		if len(servers) == 0 {
			fmt.Println("No saved servers.")
			return
		}

		fmt.Printf("%-24s %-28s %-8s %s\n", "Name", "Address", "Status", "Players")
		for _, server := range servers {
			players := "-"
			if server.Status == "online" {
				players = fmt.Sprintf("%d/%d", server.PlayersOnline, server.PlayersMax)
			}
			fmt.Printf("%-24s %-28s %-8s %s\n",
				truncate(server.Name, 22),
				fmt.Sprintf("%s:%d", server.Address, server.Port),
				server.Status,
				players,
			)
		}
	},
}

// addServerCmd saves a new server entry
var addServerCmd = &cobra.Command{
	Use:   "add [name] [address]",
	Short: "Save a server",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetInt("port")

		_, _, svc, release := bootstrap(".")
		defer release()

		if err := svc.AddServer(args[0], args[1], port); err != nil {
			logger.Log.Fatalw("Failed to add server", zap.Error(err))
		}
		fmt.Printf("Saved server %q (%s:%d)\n", args[0], args[1], port)
	},
}

// removeServerCmd deletes a saved server
var removeServerCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a saved server",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		_, _, svc, release := bootstrap(".")
		defer release()

		if err := svc.DeleteServer(args[0]); err != nil {
			logger.Log.Fatalw("Failed to remove server", zap.Error(err))
		}
		fmt.Printf("Removed server %q\n", args[0])
	},
}

// pingServerCmd refreshes a saved server's reachability status
var pingServerCmd = &cobra.Command{
	Use:   "ping [name]",
	Short: "Check whether a saved server is reachable",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		timeout, _ := cmd.Flags().GetDuration("timeout")

		_, _, svc, release := bootstrap(".")
		defer release()

		status, err := svc.PingServer(args[0], timeout)
		if err != nil {
			logger.Log.Fatalw("Failed to ping server", zap.String("name", args[0]), zap.Error(err))
		}
		fmt.Printf("%s is %s\n", args[0], status.Status)
	},
}

func init() {
	rootCmd.AddCommand(serversCmd)
	serversCmd.AddCommand(addServerCmd)
	serversCmd.AddCommand(removeServerCmd)
	serversCmd.AddCommand(pingServerCmd)

	addServerCmd.Flags().IntP("port", "p", 25565, "Server port")
	pingServerCmd.Flags().Duration("timeout", 5*time.Second, "Connection timeout")
}
