package httpapi

import (
	"strings"

	"github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ErrorEnvelope is the wire shape for failures: a single message, or the
// full violation list for validation failures.
type ErrorEnvelope struct {
	Error  string   `json:"error,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// BearerToken extracts the raw token from an Authorization header value.
// An empty or differently schemed header yields the missing-token error.
func BearerToken(header string) (string, error) {
	const scheme = "Bearer"

	header = strings.TrimSpace(header)
	if len(header) <= len(scheme)+1 {
		return "", gatekit.ErrTokenMissing
	}

	if !strings.EqualFold(header[:len(scheme)], scheme) || header[len(scheme)] != ' ' {
		return "", gatekit.ErrTokenMissing
	}

	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", gatekit.ErrTokenMissing
	}

	return token, nil
}

// RenderError is the single place pipeline and store failures become JSON.
// Internal detail stays in the logs; the response only carries it in debug
// mode.
func (a *API) RenderError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := gatekit.HTTPStatus(richErr)

	a.logger.Info(
		"request error",
		"status", status,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	if richErr.Category == errors.CategoryValidation {
		return ctx.JSON(status, ErrorEnvelope{
			Errors: gatekit.ValidationMessages(richErr),
		})
	}

	if status >= router.StatusInternalServerError && !a.debug {
		return ctx.JSON(status, ErrorEnvelope{
			Error: "an unexpected server error occurred",
		})
	}

	return ctx.JSON(status, ErrorEnvelope{Error: richErr.Message})
}

func (a *API) renderParseError(ctx router.Context, err error) error {
	return a.RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "unable to parse request body").
		WithCode(errors.CodeBadRequest))
}
