package main

import (
	"github.com/joho/godotenv"

	"github.com/adpulse/adpulse/config"
	"github.com/adpulse/adpulse/internal/constants"
	"github.com/adpulse/adpulse/internal/db"
	"github.com/adpulse/adpulse/internal/logger"
)

func main() {
	_ = godotenv.Load()
	logger.InitializeAndConfigure()

	// db.New runs AutoMigrate as part of the connection setup
	_, err := db.New(db.Options{
		Host:     config.GetEnv(constants.EnvDBHost, db.DefaultHost),
		User:     config.GetEnv(constants.EnvDBUser, db.DefaultUser),
		Password: config.GetEnv(constants.EnvDBPassword, db.DefaultPassword),
		DBName:   config.GetEnv(constants.EnvDBName, db.DefaultDBName),
		Port:     config.GetEnvInt(constants.EnvDBPort, db.DefaultPort),
	})
	if err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	logger.Info("migrations applied")
}
