package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core/stats"
)

type statsApi struct {
	svc *stats.Service
}

func registerStatsAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *stats.Service) {
	api := statsApi{svc: svc}

	g.GET("/folders/:id/stats", api.folder, jwt)
	g.GET("/stats/watch-time", api.watchTime, jwt)
}

func (api *statsApi) folder(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	fs, err := api.svc.Folder(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing folder stats")
	}
	return ctx.JSON(http.StatusOK, fs)
}

func (api *statsApi) watchTime(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	ws, err := api.svc.AccountWatchTime(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "computing watch time")
	}
	return ctx.JSON(http.StatusOK, ws)
}
