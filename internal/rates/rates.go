// Package rates holds the fixed per-hour revenue split table used when an
// admin approves a stream without supplying explicit figures.
package rates

import (
	"errors"
	"math"
	"sort"
)

// ErrUnknownTeam is returned for team names missing from the table. The
// split must never default silently; an unrecognized team is a hard error
// the reviewer has to resolve by entering explicit figures.
var ErrUnknownTeam = errors.New("unknown team")

// ErrInvalidDuration is returned for negative durations.
var ErrInvalidDuration = errors.New("duration must be >= 0")

// Split is a three-way revenue division in whole currency units.
type Split struct {
	TotalRevenue    int64 `json:"total_revenue"`
	StreamerEarning int64 `json:"streamer_earning"`
	ArhavalProfit   int64 `json:"arhaval_profit"`
}

// perHour maps each recognized team to its hourly split. StreamerEarning and
// ArhavalProfit sum to TotalRevenue for every entry.
var perHour = map[string]Split{
	"Sangal":     {TotalRevenue: 400, StreamerEarning: 300, ArhavalProfit: 100},
	"Galakticos": {TotalRevenue: 360, StreamerEarning: 270, ArhavalProfit: 90},
	"Fire Flux":  {TotalRevenue: 320, StreamerEarning: 240, ArhavalProfit: 80},
	"BoostGate":  {TotalRevenue: 300, StreamerEarning: 220, ArhavalProfit: 80},
}

// Earnings computes the split for a team and a duration in hours. All three
// outputs scale linearly with the duration and are rounded to the nearest
// whole unit.
func Earnings(team string, durationHours float64) (Split, error) {
	rate, ok := perHour[team]
	if !ok {
		return Split{}, ErrUnknownTeam
	}
	if durationHours < 0 {
		return Split{}, ErrInvalidDuration
	}
	return Split{
		TotalRevenue:    scale(rate.TotalRevenue, durationHours),
		StreamerEarning: scale(rate.StreamerEarning, durationHours),
		ArhavalProfit:   scale(rate.ArhavalProfit, durationHours),
	}, nil
}

// PerHour returns the hourly split for a team.
func PerHour(team string) (Split, error) {
	rate, ok := perHour[team]
	if !ok {
		return Split{}, ErrUnknownTeam
	}
	return rate, nil
}

// Teams returns the recognized team names, sorted.
func Teams() []string {
	names := make([]string, 0, len(perHour))
	for name := range perHour {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func scale(hourly int64, hours float64) int64 {
	return int64(math.Round(float64(hourly) * hours))
}
