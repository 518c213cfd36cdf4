package synth

import (
	"context"
	"fmt"
	"time"
)

// TimeContext is a snapshot of the caller's local time, produced once per
// request and immutable for its lifetime.
type TimeContext struct {
	LocalTime time.Time `json:"localTime"`
	TimeOfDay string    `json:"timeOfDay"`
	DayOfWeek string    `json:"dayOfWeek"`
	Timezone  string    `json:"timezone"`
}

// TimeService resolves the current TimeContext. Returning (nil, nil) is the
// normal "no time awareness available" case, not an error.
type TimeService interface {
	Resolve(ctx context.Context) (*TimeContext, error)
}

// ClockTimeService resolves time context from the process clock in a fixed
// location.
type ClockTimeService struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClockTimeService builds a TimeService for the named IANA timezone,
// falling back to UTC when the name doesn't resolve.
func NewClockTimeService(timezone string) *ClockTimeService {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &ClockTimeService{Location: loc, Now: time.Now}
}

func (s *ClockTimeService) Resolve(_ context.Context) (*TimeContext, error) {
	now := s.Now().In(s.Location)
	return &TimeContext{
		LocalTime: now,
		TimeOfDay: timeOfDay(now.Hour()),
		DayOfWeek: now.Weekday().String(),
		Timezone:  s.Location.String(),
	}, nil
}

// absentTimeService is the no-time-awareness default: resolution always
// reports absence.
type absentTimeService struct{}

func (absentTimeService) Resolve(context.Context) (*TimeContext, error) {
	return nil, nil
}

func timeOfDay(hour int) string {
	switch {
	case hour < 5:
		return "night"
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	case hour < 21:
		return "evening"
	default:
		return "night"
	}
}

// TimeNarrative renders the sentence inserted into the synthesis prompt.
func TimeNarrative(tc *TimeContext) string {
	if tc == nil {
		return ""
	}
	return fmt.Sprintf("It is currently %s on %s (%s, %s local time).",
		tc.TimeOfDay, tc.DayOfWeek, tc.Timezone, tc.LocalTime.Format("3:04 PM"))
}

// GreetingSuggestion returns a time-of-day greeting phrase, used only when the
// prompt opened the conversation with a greeting.
func GreetingSuggestion(tc *TimeContext) string {
	if tc == nil {
		return ""
	}
	switch tc.TimeOfDay {
	case "morning":
		return "Good morning"
	case "afternoon":
		return "Good afternoon"
	case "evening":
		return "Good evening"
	default:
		return ""
	}
}
