package main

import (
	"blogapi/config"
	"blogapi/routes"
	"blogapi/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase()
	defer func() {
		if err := config.CloseDatabase(); err != nil {
			utils.Sugar.Warnf("mongodb disconnect error: %v", err)
		}
	}()

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
