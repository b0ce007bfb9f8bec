package main

import (
	"meetquorum/core/logger"
	"meetquorum/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
