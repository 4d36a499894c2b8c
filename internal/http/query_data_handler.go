package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"biosignal-pipeline/internal/queries"

	"github.com/go-chi/chi/v5"
)

type queryDataHandler struct {
	queryService queries.QueryService
}

func NewQueryDataHandler(queryService queries.QueryService) AppHttpHandler {
	return &queryDataHandler{
		queryService: queryService,
	}
}

// Handle processes GET /sessions/{sessionID}/data requests.
func (h *queryDataHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	params, err := parseQueryParams(r)
	if err != nil {
		return err
	}

	result, err := h.queryService.QueryData(r.Context(), userID(r), chi.URLParam(r, "sessionID"), params)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, result)
	return nil
}

func parseQueryParams(r *http.Request) (queries.QueryParams, error) {
	var params queries.QueryParams
	query := r.URL.Query()

	var err error
	if params.StartTime, err = parseInt64Param(query.Get("startTime")); err != nil {
		return params, errInvalidQueryParam("startTime must be an integer timestamp", err)
	}
	if params.EndTime, err = parseInt64Param(query.Get("endTime")); err != nil {
		return params, errInvalidQueryParam("endTime must be an integer timestamp", err)
	}

	if raw := query.Get("maxPoints"); raw != "" {
		maxPoints, err := strconv.Atoi(raw)
		if err != nil {
			return params, errInvalidQueryParam("maxPoints must be an integer", err)
		}
		params.MaxPoints = maxPoints
	}

	if raw := query.Get("channels"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			channel, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return params, errInvalidQueryParam(fmt.Sprintf("invalid channel index %q", part), err)
			}
			params.Channels = append(params.Channels, channel)
		}
	}

	if raw := query.Get("filtered"); raw != "" {
		filtered, err := strconv.ParseBool(raw)
		if err != nil {
			return params, errInvalidQueryParam("filtered must be a boolean", err)
		}
		params.Filtered = filtered
	}

	params.Normalize = strings.TrimSpace(query.Get("normalize"))

	return params, nil
}

func parseInt64Param(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
