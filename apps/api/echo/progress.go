package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core/progress"
)

type progressApi struct {
	svc      *progress.Service
	validate *validator.Validate
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *progress.Service, validate *validator.Validate) {
	api := progressApi{svc: svc, validate: validate}

	g.GET("/progress", api.query, jwt)

	vg := g.Group("/videos/:id", jwt)
	vg.GET("/progress", api.retrieve)
	vg.PUT("/progress", api.sync)
	vg.POST("/views", api.recordView)
	vg.POST("/complete", api.markComplete)
	vg.DELETE("/complete", api.markIncomplete)
}

// Handlers

func (api *progressApi) sync(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data progress.Update
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to progress.Update")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Sync(ctx.Request().Context(), usr, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "syncing progress")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) recordView(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if _, err = api.svc.RecordView(ctx.Request().Context(), usr, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "recording view")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *progressApi) markComplete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.MarkComplete(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "marking complete")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) markIncomplete(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	rec, err := api.svc.MarkIncomplete(ctx.Request().Context(), usr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "marking incomplete")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *progressApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	filter := progress.QueryFilter{UserID: usr.ID}
	if filter.Completed, err = bindBoolParam(ctx, "completed"); err != nil {
		return err
	}
	var ord Ordering
	ord.Bind(ctx)

	recs, err := api.svc.Query(ctx.Request().Context(), filter, ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying progress")
	}
	return ctx.JSON(http.StatusOK, recs)
}
