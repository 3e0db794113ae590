package tui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nkoval/vtv/internal/catalog"
	"github.com/nkoval/vtv/internal/userdata"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// friendlyError maps internal errors to a short message safe to show
// in the status bar.
func friendlyError(err error) string {
	if err == nil {
		return ""
	}

	var upstream *catalog.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusForbidden:
			return "Video service quota exceeded, try again later"
		case http.StatusBadRequest, http.StatusUnauthorized:
			return "Video service rejected the API key, check your config"
		case http.StatusNotFound:
			return "Not found"
		default:
			return fmt.Sprintf("Video service error (HTTP %d)", upstream.StatusCode)
		}
	}

	var validation *userdata.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}

	var store *userdata.StoreError
	if errors.As(err, &store) {
		return "Local database error, see the debug log"
	}

	return err.Error()
}
