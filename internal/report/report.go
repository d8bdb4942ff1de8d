// AngelaMos | 2026
// report.go

package report

import (
	"time"

	"github.com/carterperez-dev/salescrm/internal/deal"
)

// DealStat is the slice of a deal the reports need.
type DealStat struct {
	Stage       string     `db:"stage"`
	Value       int64      `db:"value"`
	CreatedAt   time.Time  `db:"created_at"`
	ClosingDate *time.Time `db:"closing_date"`
}

type Summary struct {
	Won          int
	Lost         int
	WinRate      float64
	AvgCycleDays float64
	WonThisYear  int
}

type Dashboard struct {
	PipelineValue int64
	OpenDeals     int
}

// Summarize computes win rate, mean sales cycle and year-to-date wins.
//
// The cycle of a won deal is the number of whole days from the date it was
// created to its closing date. Won deals without a closing date are left
// out of the mean, and a closing date before creation counts as zero days.
func Summarize(stats []DealStat, now time.Time) Summary {
	var (
		s         Summary
		cycleDays int
		cycles    int
		year      = now.Year()
	)

	for _, d := range stats {
		switch d.Stage {
		case deal.StageClosedLost:
			s.Lost++
		case deal.StageClosedWon:
			s.Won++
			if d.ClosingDate == nil {
				continue
			}
			cycleDays += cycleLength(d.CreatedAt, *d.ClosingDate)
			cycles++
			if d.ClosingDate.Year() == year {
				s.WonThisYear++
			}
		}
	}

	if closed := s.Won + s.Lost; closed > 0 {
		s.WinRate = float64(s.Won) / float64(closed) * 100
	}
	if cycles > 0 {
		s.AvgCycleDays = float64(cycleDays) / float64(cycles)
	}
	return s
}

func cycleLength(created, closing time.Time) int {
	start := truncateToDate(created)
	end := truncateToDate(closing)
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildDashboard totals the open pipeline: every deal not in a closed stage.
func BuildDashboard(stats []DealStat) Dashboard {
	var dash Dashboard
	for _, d := range stats {
		if deal.IsClosed(d.Stage) {
			continue
		}
		dash.OpenDeals++
		dash.PipelineValue += d.Value
	}
	return dash
}
