package rounddomain

import (
	"regexp"
	"strings"
	"time"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

var compactTime = regexp.MustCompile(`(\d{1,2})(\d{2})(am|pm)`)

// TimeParser turns admin input into timestamps. RFC3339 is tried first, then
// English phrases such as "next friday 5pm" relative to the clock.
type TimeParser struct {
	clock Clock
	w     *when.Parser
}

// NewTimeParser creates a TimeParser. A nil clock uses the system clock.
func NewTimeParser(clock Clock) *TimeParser {
	if clock == nil {
		clock = RealClock{}
	}
	w := when.New(nil)
	w.Add(en.All...)
	return &TimeParser{clock: clock, w: w}
}

// Parse resolves input in loc and returns it in UTC. A nil loc means UTC.
func (p *TimeParser) Parse(field, input string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, apperrors.InvalidInput(field, "time is required")
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.UTC(), nil
	}

	normalized := strings.ToLower(input)
	normalized = compactTime.ReplaceAllString(normalized, "$1:$2 $3")

	r, err := p.w.Parse(normalized, p.clock.Now().In(loc))
	if err != nil || r == nil {
		return time.Time{}, apperrors.InvalidInput(field, "could not recognize time %q", input)
	}
	return r.Time.In(loc).Truncate(time.Minute).UTC(), nil
}

// LoadLocation resolves an IANA zone name. Empty means UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperrors.InvalidInput("timezone", "unknown timezone %q", name)
	}
	return loc, nil
}
