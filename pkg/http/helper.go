package http

import (
	"net/http"
	"time"

	apperrors "urbarber/pkg/errors"
	"urbarber/pkg/model"
)

// ExtractInterval reads the start/end query parameters of an availability
// probe. Naive timestamps are interpreted in loc.
func ExtractInterval(r *http.Request, loc *time.Location) (time.Time, time.Time, error) {
	query := r.URL.Query()

	startRaw := query.Get("start")
	endRaw := query.Get("end")
	if startRaw == "" || endRaw == "" {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("missing start/end")
	}

	start, err := model.ParseTimestamp(startRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid start parameter: " + startRaw)
	}
	end, err := model.ParseTimestamp(endRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("invalid end parameter: " + endRaw)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("end must be after start")
	}

	return start, end, nil
}
