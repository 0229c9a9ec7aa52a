package controller

import "github.com/labstack/echo/v4"

type ReadingController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Replace(c echo.Context) error
	Backup(c echo.Context) error
	Import(c echo.Context) error
	Delete(c echo.Context) error
	Suggestions(c echo.Context) error
	Evaluate(c echo.Context) error
	Summary(c echo.Context) error
	Series(c echo.Context) error
	Locations(c echo.Context) error
	Dashboard(c echo.Context) error
}
