package main

import (
	"beautybar/config"
	"beautybar/di"
	"beautybar/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
