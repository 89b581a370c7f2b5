package records

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/shopspring/decimal"
)

// legacyUser is one entry of the chat bot's service_data.json, keyed by
// user id at the top level of the file.
type legacyUser struct {
	Username   *string          `json:"username"`
	Sessions   []*legacySession `json:"sessions"`
	TempsTotal *decimal.Decimal `json:"temps_total"`
	EnService  *bool            `json:"en_service"`
	Debut      *string          `json:"debut_actuel"`
}

type legacySession struct {
	Debut *string          `json:"debut"`
	Fin   *string          `json:"fin"`
	Duree *decimal.Decimal `json:"duree"`
}

// legacyLayouts cover datetime.isoformat() output, with and without a UTC
// offset and with or without fractional seconds.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func parseLegacyTime(s string, loc *time.Location) (time.Time, error) {
	var err error
	for _, layout := range legacyLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func legacySeconds(d decimal.Decimal) time.Duration {
	return time.Duration(d.Shift(9).Round(0).IntPart())
}

// convertLegacySession converts one bot session. duree was computed by the bot
// from naive local timestamps, so it is the wall-clock difference and is
// checked against the bounds read as UTC. The kept bounds are read in loc,
// which makes a session crossing a DST change come out with its real
// length. The bot had no guard against the clock moving back; a session
// ending before it started is kept with zero length at its start.
func convertLegacySession(s *legacySession, loc *time.Location) (rawSession, error) {
	wallStart, err := parseLegacyTime(*s.Debut, time.UTC)
	if err != nil {
		return rawSession{}, fmt.Errorf("debut: %w", err)
	}
	wallEnd, err := parseLegacyTime(*s.Fin, time.UTC)
	if err != nil {
		return rawSession{}, fmt.Errorf("fin: %w", err)
	}
	duree := legacySeconds(*s.Duree)
	if wall := wallEnd.Sub(wallStart); absDiff(wall, duree) > sessionTolerance {
		return rawSession{}, fmt.Errorf("duree %s does not match bounds %s", duree, wall)
	}

	start, _ := parseLegacyTime(*s.Debut, loc)
	end, _ := parseLegacyTime(*s.Fin, loc)
	if end.Before(start) {
		end = start
	}
	return rawSession{start: start, end: end, duration: end.Sub(start)}, nil
}

func decodeLegacy(top map[string]json.RawMessage, loc *time.Location) (map[string]*models.UserRecord, error) {
	if loc == nil {
		loc = time.Local
	}

	raws := make([]rawRecord, 0, len(top))
	for _, id := range sortedKeys(top) {
		var u legacyUser
		if err := json.Unmarshal(top[id], &u); err != nil {
			return nil, corrupt("user %s: %v", id, err)
		}
		if u.Sessions == nil || u.TempsTotal == nil {
			return nil, corrupt("user %s: missing required field", id)
		}

		raw := rawRecord{
			userID:   id,
			total:    legacySeconds(*u.TempsTotal),
			sessions: make([]rawSession, 0, len(u.Sessions)),
		}
		if u.Username != nil {
			raw.displayName = *u.Username
		}
		if u.EnService != nil {
			raw.onDuty = *u.EnService
		}
		if u.Debut != nil {
			t, err := parseLegacyTime(*u.Debut, loc)
			if err != nil {
				return nil, corrupt("user %s: debut_actuel: %v", id, err)
			}
			raw.currentStart = &t
		}

		var recorded, kept time.Duration
		for i, s := range u.Sessions {
			if s == nil || s.Debut == nil || s.Fin == nil || s.Duree == nil {
				return nil, corrupt("user %s session %d: missing required field", id, i)
			}
			ses, err := convertLegacySession(s, loc)
			if err != nil {
				return nil, corrupt("user %s session %d: %v", id, i, err)
			}
			recorded += legacySeconds(*s.Duree)
			kept += ses.duration
			raw.sessions = append(raw.sessions, ses)
		}

		// temps_total is the running sum of duree. Check it against that sum,
		// then carry the total of the sessions as they were kept.
		if absDiff(raw.total, recorded) > totalTolerance {
			return nil, corrupt("user %s: total %s does not match sum of sessions %s", id, raw.total, recorded)
		}
		raw.total = kept

		raws = append(raws, raw)
	}

	return buildAll(raws)
}
