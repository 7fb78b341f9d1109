package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Powerhouse0784/Coaching-sub000/core/bookmark"
)

type bookmarkApi struct {
	svc      *bookmark.Service
	validate *validator.Validate
}

func registerBookmarkAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *bookmark.Service, validate *validator.Validate) {
	api := bookmarkApi{svc: svc, validate: validate}

	g.GET("/bookmarks", api.query, jwt)
	g.GET("/videos/:id/bookmark", api.retrieve, jwt)
	g.PUT("/videos/:id/bookmark", api.set, jwt)
}

func (api *bookmarkApi) set(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data bookmark.Toggle
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to bookmark.Toggle")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	b, err := api.svc.Set(ctx.Request().Context(), usr.ID, ctx.Param("id"), *data.Bookmarked)
	if err != nil {
		return errors.Wrap(err, "setting bookmark")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *bookmarkApi) retrieve(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	b, err := api.svc.Get(ctx.Request().Context(), usr.ID, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting bookmark")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *bookmarkApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	bs, err := api.svc.Query(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying bookmarks")
	}
	return ctx.JSON(http.StatusOK, bs)
}
