package dig_container

import (
	"fmt"
	"log"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	echoapi "github.com/Powerhouse0784/Coaching-sub000/apps/api/echo"
	"github.com/Powerhouse0784/Coaching-sub000/core"
	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
	"github.com/Powerhouse0784/Coaching-sub000/core/catalog"
	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
	emailsvc "github.com/Powerhouse0784/Coaching-sub000/services/email"
	logsvc "github.com/Powerhouse0784/Coaching-sub000/services/logger"
	"github.com/Powerhouse0784/Coaching-sub000/storage/database"
	sqlxrepos "github.com/Powerhouse0784/Coaching-sub000/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverDepsParam struct {
	dig.In

	Conf        *core.Config
	Logger      core.Logger
	ProgressSvc *progress.Service
	BookmarkSvc *bookmark.Service
	StatsSvc    *stats.Service
	Validate    *validator.Validate
	Translator  ut.Translator
}

func newLogger(std *logrus.Logger, conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(std, conf, "API")
}

func newDBLogger(std *logrus.Logger, conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(std, conf, "DB")
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB) {
	setUp := func() (*sqlx.DB, error) {
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

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newProgressService(
	repo progress.Repository,
	videos catalog.Repository,
	statsSvc *stats.Service,
	mailer core.EmailService,
	logger core.Logger,
) *progress.Service {
	svc := progress.NewService(repo, videos, logger)
	svc.OnCompleted(stats.NewFolderCompletionNotifier(statsSvc, mailer, logger))
	return svc
}

func newServer(p serverDepsParam) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:        p.Conf,
		Logger:      p.Logger,
		ProgressSvc: p.ProgressSvc,
		BookmarkSvc: p.BookmarkSvc,
		StatsSvc:    p.StatsSvc,
		Validate:    p.Validate,
		Translator:  p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(logsvc.NewStdLogger))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(sqlxrepos.NewCatalogRepository))
	must(c.Provide(sqlxrepos.NewProgressRepository))
	must(c.Provide(sqlxrepos.NewBookmarkRepository))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(stats.NewService))
	must(c.Provide(newProgressService))
	must(c.Provide(bookmark.NewService))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
