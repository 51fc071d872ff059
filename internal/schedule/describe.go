// Package schedule translates cron expressions into the plain-English
// sentences shown on the admin scraping screens.
package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
)

var weekdayNames = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// ParseField expands a single cron field into the sorted set of integers it
// selects within [min, max]. A field is either "*", a step "*/n" with a
// positive n, or a comma-separated list of plain integers and "a-b" ranges.
// A descending range, a value outside the bounds or any other shape fails
// the whole field.
func ParseField(field string, min, max int) ([]int, error) {
	if field == "*" {
		values := make([]int, 0, max-min+1)
		for v := min; v <= max; v++ {
			values = append(values, v)
		}
		return values, nil
	}

	if rest, ok := strings.CutPrefix(field, "*/"); ok {
		step, err := strconv.Atoi(rest)
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("invalid step value %q", rest)
		}
		var values []int
		for v := min; v <= max; v += step {
			values = append(values, v)
		}
		return values, nil
	}

	var values []int
	for _, part := range strings.Split(field, ",") {
		lo, hi, err := parseRange(part, min, max)
		if err != nil {
			return nil, err
		}
		for v := lo; v <= hi; v++ {
			values = append(values, v)
		}
	}
	return dedupe(values), nil
}

func parseRange(part string, min, max int) (int, int, error) {
	if lo, hi, ok := strings.Cut(part, "-"); ok {
		start, err := strconv.Atoi(lo)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range start %q", lo)
		}
		end, err := strconv.Atoi(hi)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid range end %q", hi)
		}
		if start > end {
			return 0, 0, fmt.Errorf("descending range %q", part)
		}
		if start < min || end > max {
			return 0, 0, fmt.Errorf("range %q outside %d-%d", part, min, max)
		}
		return start, end, nil
	}

	v, err := strconv.Atoi(part)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid value %q", part)
	}
	if v < min || v > max {
		return 0, 0, fmt.Errorf("value %d outside %d-%d", v, min, max)
	}
	return v, v, nil
}

func dedupe(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Describe translates a five-field cron expression into an English sentence.
// Expressions it cannot translate are returned unchanged, so the schedule
// column always has something to show.
func Describe(expr string, runOnStartupIfMissed bool) string {
	text := describeExpr(expr)
	if runOnStartupIfMissed {
		text += ", run on startup if missed"
	}
	return text
}

// DescribeConfig renders the schedule line for one job configuration.
func DescribeConfig(cfg types.ScheduleConfig) string {
	if !cfg.Enabled {
		return "Scheduling disabled"
	}
	return Describe(cfg.Cron, cfg.RunOnStartupIfMissed)
}

func describeExpr(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}

	minutes, err := ParseField(fields[0], 0, 59)
	if err != nil {
		return expr
	}
	hours, err := ParseField(fields[1], 0, 23)
	if err != nil {
		return expr
	}

	// Both slices are sorted, so the cartesian product comes out ordered
	// by hour then minute.
	times := make([]string, 0, len(hours)*len(minutes))
	for _, h := range hours {
		for _, m := range minutes {
			times = append(times, fmt.Sprintf("%d:%02d", h, m))
		}
	}

	dom, month, dow := fields[2], fields[3], fields[4]
	if dom != "*" || month != "*" {
		return expr
	}

	if dow == "*" {
		return "every day at " + joinWithAnd(times)
	}

	days, err := ParseField(dow, 0, 6)
	if err != nil {
		return expr
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = weekdayNames[d]
	}
	return "every " + joinWithAnd(names) + " at " + joinWithAnd(times)
}

func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
