package main

import (
	"github.com/sirupsen/logrus"

	"github.com/JennyYuanZW/JianshanPortal/config"
	"github.com/JennyYuanZW/JianshanPortal/internal/database"
	"github.com/JennyYuanZW/JianshanPortal/internal/global"
)

// InitGlobal initializes the global state of the process: collection
// names, validator, configuration and the MongoDB connection. Order
// matters, config must come before the database.
func InitGlobal() {
	initColNames()
	initValidator()
	initConfig()
	initDatabase_MongoDB()
}

func initColNames() {
	global.MongoDB_ColNames.Applications = "applications"
	logrus.Info("Initialized collection names")
}

func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	if err := database.EnsureApplicationIndexes(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to create application indexes: %v", err)
	}
	logrus.Info("Ensured application indexes")
}
