package phh

import "time"

// HandHistory is a single hand in PHH (Poker Hand History) format. Players
// are ordered by position starting with the small blind.
type HandHistory struct {
	Variant           string         `toml:"variant"`
	Table             string         `toml:"table,omitempty"`
	SeatCount         int            `toml:"seat_count,omitempty"`
	Seats             []int          `toml:"seats,omitempty"`
	Antes             []int          `toml:"antes"`
	BlindsOrStraddles []int          `toml:"blinds_or_straddles"`
	MinBet            int            `toml:"min_bet"`
	StartingStacks    []int          `toml:"starting_stacks"`
	FinishingStacks   []int          `toml:"finishing_stacks,omitempty"`
	Winnings          []int          `toml:"winnings,omitempty"`
	Actions           []string       `toml:"actions"`
	Players           []string       `toml:"players,omitempty"`
	HandID            string         `toml:"hand"`
	Time              string         `toml:"time,omitempty"`
	TimeZone          string         `toml:"time_zone,omitempty"`
	Day               int            `toml:"day,omitempty"`
	Month             int            `toml:"month,omitempty"`
	Year              int            `toml:"year,omitempty"`
	Metadata          map[string]any `toml:"metadata,omitempty"`

	Timestamp time.Time `toml:"-"`
}

const defaultVariant = "NT"

func (h *HandHistory) setTime(t time.Time) {
	h.Timestamp = t
	if t.IsZero() {
		return
	}
	utc := t.UTC()
	h.Time = utc.Format("15:04:05")
	h.TimeZone = "UTC"
	h.Day = utc.Day()
	h.Month = int(utc.Month())
	h.Year = utc.Year()
}
