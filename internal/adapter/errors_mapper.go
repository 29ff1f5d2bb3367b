package adapter

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, code, body)
	case code == http.StatusBadRequest, code == http.StatusRequestEntityTooLarge, code == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	default:
		return fmt.Errorf("http %d: %s", code, body)
	}
}

// checkClockSkew compares the server Date header with now. A missing or
// unparsable header is not an error.
func checkClockSkew(resp *resty.Response, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		return nil
	}

	header := resp.Header().Get("Date")
	if header == "" {
		return nil
	}
	serverTime, err := http.ParseTime(header)
	if err != nil {
		return nil
	}

	skew := now.Sub(serverTime)
	if skew < 0 {
		skew = -skew
	}
	if skew > tolerance {
		return fmt.Errorf("%w: device is %s away from server time %s", ErrClockSkew, skew.Round(time.Second), serverTime.UTC().Format(time.RFC3339))
	}
	return nil
}
