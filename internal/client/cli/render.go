package cli

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/api"
)

// formatHMS renders "1h 1m 1s".
func formatHMS(b api.Breakdown) string {
	return fmt.Sprintf("%dh %dm %ds", b.Hours, b.Minutes, b.Seconds)
}

// formatHM renders "1h 1m", dropping seconds.
func formatHM(b api.Breakdown) string {
	return fmt.Sprintf("%dh %dm", b.Hours, b.Minutes)
}

func breakdownOf(seconds int64) api.Breakdown {
	if seconds < 0 {
		seconds = 0
	}
	return api.Breakdown{Hours: seconds / 3600, Minutes: seconds % 3600 / 60, Seconds: seconds % 60}
}

func (a *App) formatTime(t time.Time) string {
	return t.In(a.loc).Format("2006-01-02 15:04:05")
}

func (a *App) formatDate(t time.Time) string {
	return t.In(a.loc).Format("2006-01-02")
}
