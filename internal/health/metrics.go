// Package health derives standard fitness metrics (BMI, BMR, TDEE) from the
// free-form body stats stored on a profile. It is intentionally small and
// dependency-free: a pure, deterministic function over its inputs, safe to
// call concurrently from any number of request handlers.
//
// Height and weight arrive as unit-bearing strings exactly as users typed
// them ("180cm", "5'11\"", "75kg", "165lbs"). Parsing is lenient about the
// unit suffix but strict about the numeric core: anything unparseable is
// reported as a *ParseError so callers can degrade gracefully instead of
// failing the request.
package health

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BMI status categories. Boundaries are inclusive on the Healthy side:
// a BMI of exactly 18.5 or 25 is Healthy.
const (
	StatusUnderweight = "Underweight"
	StatusHealthy     = "Healthy"
	StatusOverweight  = "Overweight"
)

// Unit conversion constants.
const (
	kgPerPound = 0.453592
	cmPerFoot  = 30.48
	cmPerInch  = 2.54
)

// activityFactor is the fixed TDEE multiplier applied to BMR. There is no
// user-selectable activity level.
const activityFactor = 1.55

// ErrUnparseable is the sentinel wrapped by every *ParseError. Callers that
// do not care about which field failed can just errors.Is against this.
var ErrUnparseable = errors.New("unparseable body stats")

// ParseError reports that a height or weight string could not be converted
// into metric units. It is a recoverable, user-facing condition: the chat
// flow answers with a friendly prompt to fix the profile rather than an
// error status.
type ParseError struct {
	Field string // "height" or "weight"
	Value string // original input
	Err   error  // underlying cause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrUnparseable }

// Metrics holds the derived values for one profile. It is ephemeral:
// computed fresh per request and never persisted.
type Metrics struct {
	WeightKG  float64
	HeightCM  float64
	BMI       float64
	BMIStatus string
	BMR       float64
	TDEE      int
}

// Derive normalizes the given stats to metric units and computes BMI, BMR
// and TDEE. BMR uses the Mifflin-St Jeor equation with a sex-neutral
// constant offset of +5 (no biological-sex term is collected). TDEE is
// floor(BMR * 1.55).
func Derive(height, weight string, age int) (Metrics, error) {
	weightKG, err := parseWeight(weight)
	if err != nil {
		return Metrics{}, err
	}
	heightCM, err := parseHeight(height)
	if err != nil {
		return Metrics{}, err
	}

	bmi := weightKG / math.Pow(heightCM/100, 2)
	if math.IsNaN(bmi) || math.IsInf(bmi, 0) {
		return Metrics{}, &ParseError{Field: "height", Value: height, Err: errors.New("non-finite BMI")}
	}

	bmr := 10*weightKG + 6.25*heightCM - 5*float64(age) + 5

	return Metrics{
		WeightKG:  weightKG,
		HeightCM:  heightCM,
		BMI:       bmi,
		BMIStatus: classifyBMI(bmi),
		BMR:       bmr,
		TDEE:      int(math.Floor(bmr * activityFactor)),
	}, nil
}

// classifyBMI maps a BMI value onto its category.
func classifyBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return StatusUnderweight
	case bmi > 25:
		return StatusOverweight
	default:
		return StatusHealthy
	}
}

// parseWeight converts a weight string to kilograms. The "kg"/"lbs" suffix
// is stripped before the numeric parse; if the original string carried
// "lbs", the value is converted from pounds.
func parseWeight(weight string) (float64, error) {
	s := strings.ToLower(weight)
	s = strings.ReplaceAll(s, "kg", "")
	s = strings.ReplaceAll(s, "lbs", "")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Field: "weight", Value: weight, Err: err}
	}
	if strings.Contains(strings.ToLower(weight), "lbs") {
		v *= kgPerPound
	}
	return v, nil
}

// parseHeight converts a height string to centimeters. A "'" marks
// feet-and-inches notation (the inches part is optional and may carry a
// trailing double quote); otherwise the value is taken as centimeters with
// an optional "cm" suffix.
func parseHeight(height string) (float64, error) {
	s := strings.ToLower(height)

	if strings.Contains(s, "'") {
		parts := strings.SplitN(s, "'", 2)
		ft, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, &ParseError{Field: "height", Value: height, Err: err}
		}
		inch := 0.0
		if len(parts) == 2 {
			in := strings.TrimSpace(strings.ReplaceAll(parts[1], `"`, ""))
			if in != "" {
				inch, err = strconv.ParseFloat(in, 64)
				if err != nil {
					return 0, &ParseError{Field: "height", Value: height, Err: err}
				}
			}
		}
		return ft*cmPerFoot + inch*cmPerInch, nil
	}

	s = strings.TrimSpace(strings.ReplaceAll(s, "cm", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Field: "height", Value: height, Err: err}
	}
	return v, nil
}
