package main

import (
	"modpack-launcher/cmd"
	"modpack-launcher/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	logger.InitLogger()
	defer logger.Sync() // Ensure logs are flushed on exit
	cmd.Execute()
}
