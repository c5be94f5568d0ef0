package main

import (
	"smartmeet/config"
	"smartmeet/di"
	"smartmeet/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
