package controller

import "github.com/labstack/echo/v4"

type ProfileController interface {
	List(c echo.Context) error
	Replace(c echo.Context) error
	Active(c echo.Context) error
}
