// Package ingest validates and canonicalizes raw judgment records and
// calibration payloads into the engine's internal shapes. Malformed
// individual records are dropped with recorded diagnostics; only a
// structurally wrong top-level payload fails the whole run.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ahrav/go-podium/internal/domain"
)

// Structural errors that abort the run before any computation.
var (
	// ErrNotArray is returned when the judgments payload is valid JSON but
	// not a top-level array.
	ErrNotArray = errors.New("judgments payload must be a JSON array of judgment objects")

	// ErrInvalidJSON is returned when a payload cannot be decoded at all.
	ErrInvalidJSON = errors.New("invalid JSON payload")
)

// UnknownJudge is the judge identifier assigned when a record carries
// neither a usable "model" nor "judge_id" field.
const UnknownJudge = "unknown"

// caser folds position tokens case-insensitively, including non-ASCII input.
var caser = cases.Fold()

// posRule attempts to extract a position sign from one raw encoding.
// Rules are evaluated in priority order; the first match wins.
type posRule func(raw any) (domain.PosSign, bool)

// posRules is the ordered extraction chain for the "pos" field: booleans,
// then numbers (sign-based), then string tokens. Anything unrecognized
// falls through to the PosFirst default.
var posRules = []posRule{posFromBool, posFromNumber, posFromString}

func posFromBool(raw any) (domain.PosSign, bool) {
	b, ok := raw.(bool)
	if !ok {
		return 0, false
	}
	if b {
		return domain.PosFirst, true
	}
	return domain.PosSecond, true
}

func posFromNumber(raw any) (domain.PosSign, bool) {
	// encoding/json decodes every JSON number into float64.
	n, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	if n >= 0 {
		return domain.PosFirst, true
	}
	return domain.PosSecond, true
}

func posFromString(raw any) (domain.PosSign, bool) {
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	switch caser.String(strings.TrimSpace(s)) {
	case "a", "first", "+1", "1", "left":
		return domain.PosFirst, true
	case "b", "second", "-1", "-", "right":
		return domain.PosSecond, true
	}
	return 0, false
}

// NormalizePos coerces any raw "pos" encoding to exactly +1 or -1.
// Unrecognized encodings (including a missing field) default to PosFirst.
func NormalizePos(raw any) domain.PosSign {
	for _, rule := range posRules {
		if sign, ok := rule(raw); ok {
			return sign
		}
	}
	return domain.PosFirst
}

// judgeRule attempts to resolve the judge identifier from one record field.
type judgeRule func(record map[string]any) (string, bool)

// judgeRules is the ordered resolution chain for the judge identifier:
// "model" first, then "judge_id"; both require a non-empty string value.
var judgeRules = []judgeRule{
	func(record map[string]any) (string, bool) { return nonEmptyString(record["model"]) },
	func(record map[string]any) (string, bool) { return nonEmptyString(record["judge_id"]) },
}

func nonEmptyString(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// ExtractJudge resolves the judge key used for calibration lookup,
// falling back to UnknownJudge when no field matches.
func ExtractJudge(record map[string]any) string {
	for _, rule := range judgeRules {
		if judge, ok := rule(record); ok {
			return judge
		}
	}
	return UnknownJudge
}

// NormalizeJudgments validates a raw judgments payload and returns the
// normalized judgments, the per-record error strings, and the total record
// count. Records whose parse_status is present and not "ok" are skipped
// silently: they represent judge calls that never produced a usable answer,
// not data errors. A non-array payload is the only fatal condition.
func NormalizeJudgments(raw []byte) ([]domain.Judgment, []string, int, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, 0, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	records, ok := payload.([]any)
	if !ok {
		return nil, nil, 0, ErrNotArray
	}

	judgments := make([]domain.Judgment, 0, len(records))
	var errs []string

	for idx, item := range records {
		record, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("entry %d is not an object", idx))
			continue
		}

		if status, ok := record["parse_status"].(string); ok && caser.String(status) != "ok" {
			continue
		}

		winner, ok := nonEmptyString(record["winner"])
		if !ok {
			errs = append(errs, fmt.Sprintf("entry %d has invalid winner", idx))
			continue
		}
		loser, ok := nonEmptyString(record["loser"])
		if !ok {
			errs = append(errs, fmt.Sprintf("entry %d has invalid loser", idx))
			continue
		}
		if winner == loser {
			errs = append(errs, fmt.Sprintf("entry %d has winner equal to loser", idx))
			continue
		}

		pos := domain.PosFirst
		if rawPos, present := record["pos"]; present {
			pos = NormalizePos(rawPos)
		}

		judgments = append(judgments, domain.Judgment{
			Winner: winner,
			Loser:  loser,
			Judge:  ExtractJudge(record),
			Pos:    pos,
		})
	}

	return judgments, errs, len(records), nil
}
