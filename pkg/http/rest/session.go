package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/personameet/recorder/pkg/session"
)

type sessionController struct {
	session.Service
}

type StartSessionRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type StopSessionRequest struct {
	URL string `json:"url"`
}

func NewSessionController(service session.Service) sessionController {
	return sessionController{service}
}

var ErrEmptyFields = errors.New("one or more fields is empty")

func (sc *sessionController) StartSession(c echo.Context) error {
	// Bind request data
	data := new(StartSessionRequest)
	if err := c.Bind(data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	// Sanitise request
	if data.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, ErrEmptyFields)
	}

	// Call service
	status, err := sc.Service.StartSession(data.URL, data.Name)
	if err != nil {
		return echo.NewHTTPError(statusCode(err), err)
	}

	// Return the session snapshot
	return c.JSON(http.StatusCreated, status)
}

func (sc *sessionController) StopSession(c echo.Context) error {
	// Bind request data
	data := new(StopSessionRequest)
	if err := c.Bind(data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	// Sanitise request
	if data.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, ErrEmptyFields)
	}

	// Call service
	if err := sc.Service.StopSession(data.URL); err != nil {
		return echo.NewHTTPError(statusCode(err), err)
	}

	// Return success
	return c.NoContent(http.StatusOK)
}

func (sc *sessionController) SessionStatus(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return echo.NewHTTPError(http.StatusBadRequest, ErrEmptyFields)
	}

	status, err := sc.Service.SessionStatus(url)
	if err != nil {
		return echo.NewHTTPError(statusCode(err), err)
	}
	return c.JSON(http.StatusOK, status)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, session.ErrBadMeetingURL):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
