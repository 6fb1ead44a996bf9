package main

import (
	"smartdrishti-server/confs"
	"smartdrishti-server/db"
	"smartdrishti-server/logger"
	"smartdrishti-server/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := confs.Load()
	if err != nil {
		panic(err)
	}

	logger.Init()
	defer logger.Close()

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.SeedDemoProjects(database); err != nil {
		logger.Warn("demo seed failed", zap.Error(err))
	}

	server.NewServer(cfg, database).Start()
}
