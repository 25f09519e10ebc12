package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ahrav/go-podium/internal/domain"
)

// ParseCalibration extracts per-judge reliability values from a calibration
// payload of the shape {"judges": {"<judge>": {"rho": <float>}, ...}}.
// Parsing is stricter than judgment normalization: an entry whose rho does
// not parse as a finite float is dropped and reported, but the remaining
// judges stay usable. Only undecodable JSON fails the call; a missing
// calibration file is handled (fatally) by the caller.
func ParseCalibration(raw []byte) (domain.CalibrationProfile, []string, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	profile := make(domain.CalibrationProfile)

	root, ok := payload.(map[string]any)
	if !ok {
		return profile, []string{"calibration must be a JSON object"}, nil
	}
	judges, ok := root["judges"].(map[string]any)
	if !ok {
		return profile, []string{"calibration must contain a 'judges' object"}, nil
	}

	var errs []string
	for judge, entry := range judges {
		if strings.TrimSpace(judge) == "" {
			errs = append(errs, "calibration contains an empty judge key")
			continue
		}
		fields, ok := entry.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("calibration judge %q value must be an object", judge))
			continue
		}

		rawRho, present := fields["rho"]
		if !present {
			profile[judge] = domain.DefaultRho
			continue
		}
		rho, ok := parseRho(rawRho)
		if !ok {
			errs = append(errs, fmt.Sprintf("calibration judge %q has invalid rho", judge))
			continue
		}
		if math.IsNaN(rho) || math.IsInf(rho, 0) {
			errs = append(errs, fmt.Sprintf("calibration judge %q rho must be finite", judge))
			continue
		}
		profile[judge] = rho
	}

	return profile, errs, nil
}

// parseRho coerces a raw rho value to float64. JSON numbers are used
// directly; numeric strings are parsed for robustness against upstream
// serializers that quote floats.
func parseRho(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		rho, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return rho, err == nil
	default:
		return 0, false
	}
}
