package main

import (
	"time"

	"github.com/plabs/showwall/config"
	"github.com/plabs/showwall/models"
	"github.com/plabs/showwall/repository"
	"github.com/plabs/showwall/routes"
	"github.com/plabs/showwall/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.Submission{}, &models.StagedUpload{})

	repo := repository.NewSubmissionRepository(db)
	ledger := repository.NewUploadLedger(db)

	r := routes.SetupRouter(repo, ledger)

	// Background cleanup for files orphaned between file write and DB write
	utils.StartStagedUploadReaper(ledger, 5*time.Minute, time.Duration(cfg.StagingTTLMinutes)*time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
