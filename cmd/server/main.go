package main

import (
	"github.com/oncograph/backend/internal/server"
	"github.com/oncograph/backend/internal/util"
	"github.com/oncograph/backend/pkg/logger"
	"github.com/oncograph/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
