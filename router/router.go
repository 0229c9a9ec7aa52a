package router

import (
	"github.com/labstack/echo/v4"
)

func New(
	e *echo.Echo,
	readingCtrl interface {
		List(echo.Context) error
		Create(echo.Context) error
		Replace(echo.Context) error
		Backup(echo.Context) error
		Import(echo.Context) error
		Delete(echo.Context) error
		Suggestions(echo.Context) error
		Evaluate(echo.Context) error
		Summary(echo.Context) error
		Series(echo.Context) error
		Locations(echo.Context) error
		Dashboard(echo.Context) error
	},
	exportCtrl interface{ Download(echo.Context) error },
	weatherCtrl interface{ Current(echo.Context) error },
	profileCtrl interface {
		List(echo.Context) error
		Replace(echo.Context) error
		Active(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	api := e.Group("/api")

	api.GET("/readings", readingCtrl.List)
	api.POST("/readings", readingCtrl.Create)
	api.PUT("/readings", readingCtrl.Replace)
	api.GET("/readings/backup", readingCtrl.Backup)
	api.POST("/readings/import", readingCtrl.Import)
	api.GET("/readings/:id/suggestions", readingCtrl.Suggestions)
	api.DELETE("/readings/:id", readingCtrl.Delete)

	api.POST("/suggestions", readingCtrl.Evaluate)
	api.GET("/summary", readingCtrl.Summary)
	api.GET("/series", readingCtrl.Series)
	api.GET("/locations", readingCtrl.Locations)
	api.GET("/dashboard", readingCtrl.Dashboard)

	api.GET("/export", exportCtrl.Download)
	api.GET("/weather", weatherCtrl.Current)

	api.GET("/profiles", profileCtrl.List)
	api.PUT("/profiles", profileCtrl.Replace)
	api.GET("/profiles/active", profileCtrl.Active)
	return e
}
