package main

import (
	"os"

	"forum-api/core/logger"
	"forum-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
		os.Exit(1)
	}
}
