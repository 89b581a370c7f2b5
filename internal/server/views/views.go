// Package views turns tracker results into api payloads and classifies
// errors for the gRPC and HTTP adapters. Durations are sent as whole
// seconds plus a precomputed breakdown.
package views

import (
	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/dmitrijs2005/dutybadge/internal/server/tracker"
)

func breakdown(b models.Breakdown) api.Breakdown {
	return api.Breakdown{Hours: b.Hours, Minutes: b.Minutes, Seconds: b.Seconds}
}

func session(s models.Session) api.Session {
	return api.Session{
		Start:           s.Start,
		End:             s.End,
		DurationSeconds: models.WholeSeconds(s.Duration),
		Duration:        breakdown(models.BreakdownOf(s.Duration)),
	}
}

func StartResult(info tracker.StartInfo) api.StartResult {
	return api.StartResult{UserID: info.UserID, DisplayName: info.DisplayName, Start: info.Start}
}

func StopResult(info tracker.StopInfo) api.StopResult {
	return api.StopResult{
		UserID:       info.UserID,
		DisplayName:  info.DisplayName,
		Session:      session(info.Session),
		TotalSeconds: models.WholeSeconds(info.Total),
		Total:        breakdown(models.BreakdownOf(info.Total)),
	}
}

func Status(st tracker.UserStatus) api.Status {
	out := api.Status{
		Known:            st.Known,
		UserID:           st.UserID,
		DisplayName:      st.DisplayName,
		OnDuty:           st.OnDuty,
		ElapsedSeconds:   models.WholeSeconds(st.Elapsed),
		TotalSeconds:     models.WholeSeconds(st.Total),
		LiveTotalSeconds: models.WholeSeconds(st.LiveTotal),
		LiveTotal:        breakdown(models.BreakdownOf(st.LiveTotal)),
		SessionCount:     st.SessionCount,
	}
	if st.OnDuty {
		start := st.CurrentStart
		out.CurrentStart = &start
	}
	return out
}

func OnDuty(entries []tracker.OnDutyEntry) api.OnDutyList {
	out := api.OnDutyList{Users: make([]api.OnDutyEntry, 0, len(entries))}
	for _, e := range entries {
		out.Users = append(out.Users, api.OnDutyEntry{
			UserID:         e.UserID,
			DisplayName:    e.DisplayName,
			Start:          e.Start,
			ElapsedSeconds: models.WholeSeconds(e.Elapsed),
			Elapsed:        breakdown(models.BreakdownOf(e.Elapsed)),
		})
	}
	return out
}

func Report(rep tracker.Report) api.Report {
	out := api.Report{Status: Status(rep.UserStatus), Recent: make([]api.Session, 0, len(rep.Recent))}
	for _, s := range rep.Recent {
		out.Recent = append(out.Recent, session(s))
	}
	return out
}
