package main

import (
	"expvar"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/Powerhouse0784/Coaching-sub000/apps/api/echo"
	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
	emailsvc "github.com/Powerhouse0784/Coaching-sub000/services/email"
	logsvc "github.com/Powerhouse0784/Coaching-sub000/services/logger"
	"github.com/Powerhouse0784/Coaching-sub000/storage/database"
	sqlxrepos "github.com/Powerhouse0784/Coaching-sub000/storage/database/sqlx"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	std := logsvc.NewStdLogger(conf)
	logger := logsvc.NewRollbarLogger(std, conf, "API")
	dbLogger := logsvc.NewRollbarLogger(std, conf, "DB")

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		dbLogger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	catalogRepo := sqlxrepos.NewCatalogRepository(db)
	progressRepo := sqlxrepos.NewProgressRepository(db)

	statsSvc := stats.NewService(progressRepo, catalogRepo)
	progressSvc := progress.NewService(progressRepo, catalogRepo, logger)
	progressSvc.OnCompleted(stats.NewFolderCompletionNotifier(statsSvc, mailSvc, logger))
	bookmarkSvc := bookmark.NewService(sqlxrepos.NewBookmarkRepository(db), catalogRepo)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : %s", conf))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			ProgressSvc: progressSvc,
			BookmarkSvc: bookmarkSvc,
			StatsSvc:    statsSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	waitForShutdown(conf, logger, server)
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		return nil, err
	}
	return db, nil
}
