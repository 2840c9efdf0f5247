package validate

import (
	"strconv"

	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

// durationUnits maps a recognized unit suffix to its length in
// milliseconds.
var durationUnits = map[string]float64{
	"h": 3600_000, "m": 60_000, "s": 1000,
	"ms": 1, "us": 0.001, "µs": 0.001, "μs": 0.001, "ns": 0.000001,
}

// parseDuration walks value as a sequence of magnitude+unit pairs and
// returns the diagnostic code to report; failed is false when the value
// is well-formed and totals at least 1ms.
func parseDuration(value string) (code diagnostic.Code, failed bool) {
	if value == "" {
		return diagnostic.FlagMissingDuration, true
	}
	first := value[0]
	if !(first >= '0' && first <= '9') && first != '.' && first != '-' {
		return diagnostic.FlagMissingDuration, true
	}

	i := 0
	n := len(value)
	total := 0.0
	pairs := 0
	negative := false

	for i < n {
		sign := false
		if value[i] == '-' {
			if i+1 < n && value[i+1] == '-' {
				return diagnostic.FlagInvalidDuration, true
			}
			sign = true
			i++
		}
		magStart := i
		dots := 0
		for i < n && ((value[i] >= '0' && value[i] <= '9') || value[i] == '.') {
			if value[i] == '.' {
				dots++
			}
			i++
		}
		if i == magStart {
			if sign {
				return diagnostic.FlagUnknownUnit, true
			}
			return diagnostic.FlagMissingDuration, true
		}
		if dots > 1 {
			return diagnostic.FlagMissingDuration, true
		}
		magText := value[magStart:i]
		mag, err := strconv.ParseFloat(magText, 64)
		if err != nil {
			return diagnostic.FlagMissingDuration, true
		}
		if sign {
			mag = -mag
			negative = true
		}

		unitStart := i
		for i < n && !(value[i] >= '0' && value[i] <= '9') && value[i] != '.' && value[i] != '-' {
			i++
		}
		unit := value[unitStart:i]
		if unit == "" {
			if i < n && value[i] == '-' {
				return diagnostic.FlagUnknownUnit, true
			}
			return diagnostic.FlagMissingDuration, true
		}
		scale, known := durationUnits[unit]
		if !known {
			return diagnostic.FlagUnknownUnit, true
		}

		if mag < 0 || (mag == 0 && negative) {
			return diagnostic.FlagLessThan1ms, true
		}

		total += mag * scale
		pairs++
	}

	if pairs == 0 {
		return diagnostic.FlagMissingDuration, true
	}
	if total < 1 {
		return diagnostic.FlagLessThan1ms, true
	}
	return 0, false
}
