package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Function endpoints take a single JSON object discriminated by an
// "action" field, with the action's parameters as sibling keys. The
// body is decoded in two passes: once for the discriminator, then again
// into the action's own parameter struct.

// decodeFunctionCall reads the body and extracts the action name. The
// raw bytes are returned so the caller can decode action parameters
// from the same payload.
func decodeFunctionCall(c echo.Context) (string, []byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	var env struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if env.Action == "" {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "action is required")
	}
	return env.Action, body, nil
}

// bindParams decodes and validates one action's parameters.
func bindParams(c echo.Context, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// unknownAction is the uniform reply for an unrecognized action name.
func unknownAction(action string) error {
	return echo.NewHTTPError(http.StatusBadRequest, "unknown action: "+action)
}
