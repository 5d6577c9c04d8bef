package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/liftmotor/internal/domain/requirement"
	"github.com/okian/liftmotor/internal/domain/types"
)

const maxSelectBody = 1 << 16

// SelectDependencies defines the interface for running selection queries.
type SelectDependencies interface {
	Select(ctx context.Context, q requirement.Query) (types.Response, error)
}

// SelectHandler handles selection requests.
type SelectHandler struct {
	deps SelectDependencies
}

// NewSelectHandler creates a new select handler.
func NewSelectHandler(deps SelectDependencies) *SelectHandler {
	return &SelectHandler{deps: deps}
}

// HandleSelect handles POST /select (JSON body) and GET /select (query
// parameters). It answers 503 only when every requested catalog is
// unavailable; partial availability is reported per result.
func (h *SelectHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	const op = "api.select"

	var q requirement.Query
	switch r.Method {
	case http.MethodPost:
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&q); err != nil {
			writeOpError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
	default:
		parsed, err := queryFromValues(r.URL.Query())
		if err != nil {
			writeOpError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		q = parsed
	}

	resp, err := h.deps.Select(r.Context(), q)
	if err != nil {
		writeOpError(w, Wrap(op, err))
		return
	}

	status := http.StatusOK
	if allUnavailable(resp) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

func allUnavailable(resp types.Response) bool {
	if len(resp.Results) == 0 {
		return false
	}
	for _, res := range resp.Results {
		if res.Status != types.StatusUnavailable {
			return false
		}
	}
	return true
}

func queryFromValues(v url.Values) (requirement.Query, error) {
	q := requirement.Query{
		MotorType:    requirement.MotorChoice(v.Get("motor_type")),
		UseType:      requirement.UseType(v.Get("use_type")),
		RopingFilter: requirement.RopingFilter(v.Get("roping")),
		Policy:       v.Get("policy"),
	}
	var err error
	if q.Passengers, err = intParam(v, "passengers"); err != nil {
		return q, err
	}
	if q.Floors, err = intParam(v, "floors"); err != nil {
		return q, err
	}
	if q.LoadKG, err = floatParam(v, "load_kg"); err != nil {
		return q, err
	}
	if q.SpeedMPS, err = floatParam(v, "speed_mps"); err != nil {
		return q, err
	}
	if s := v.Get("explain"); s != "" {
		if q.Explain, err = strconv.ParseBool(s); err != nil {
			return q, fmt.Errorf("explain: %w", err)
		}
	}
	return q, nil
}

func intParam(v url.Values, key string) (int, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func floatParam(v url.Values, key string) (float64, error) {
	s := v.Get(key)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
