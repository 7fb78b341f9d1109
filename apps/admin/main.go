package main

import (
	"fmt"
	"os"

	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
	logsvc "github.com/Powerhouse0784/Coaching-sub000/services/logger"
	"github.com/Powerhouse0784/Coaching-sub000/storage/database"
	sqlxrepos "github.com/Powerhouse0784/Coaching-sub000/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf), conf, "ADMIN")

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	catalogRepo := sqlxrepos.NewCatalogRepository(db)
	progressRepo := sqlxrepos.NewProgressRepository(db)

	// start CLI
	cli := commandLine{
		conf:        conf,
		logger:      logger,
		out:         os.Stdout,
		db:          db.DB,
		catalog:     catalogRepo,
		progressSvc: progress.NewService(progressRepo, catalogRepo, logger),
		statsSvc:    stats.NewService(progressRepo, catalogRepo),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
