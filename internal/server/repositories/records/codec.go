package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/dutybadge/internal/server/models"
	"github.com/shopspring/decimal"
)

const formatVersion = 1

// seconds is a duration written as decimal seconds with up to nine
// fractional digits, so whole nanoseconds survive a round trip.
type seconds struct {
	decimal.Decimal
}

func secondsOf(d time.Duration) *seconds {
	return &seconds{decimal.New(int64(d), -9)}
}

func (s seconds) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *seconds) duration() time.Duration {
	return time.Duration(s.Shift(9).IntPart())
}

type document struct {
	Version int                      `json:"version"`
	Users   map[string]*userDocument `json:"users"`
}

type userDocument struct {
	DisplayName   *string            `json:"displayName"`
	Sessions      []*sessionDocument `json:"sessions"`
	TotalDuration *seconds           `json:"totalDuration"`
	OnDuty        *bool              `json:"onDuty"`
	CurrentStart  *time.Time         `json:"currentStart,omitempty"`
}

type sessionDocument struct {
	Start    *time.Time `json:"start"`
	End      *time.Time `json:"end"`
	Duration *seconds   `json:"duration"`
}

// Encode renders a snapshot as the versioned JSON document.
func Encode(recs map[string]*models.UserRecord) ([]byte, error) {
	doc := document{Version: formatVersion, Users: make(map[string]*userDocument, len(recs))}

	for id, rec := range recs {
		name := rec.DisplayName
		onDuty := rec.IsOnDuty()
		u := &userDocument{
			DisplayName:   &name,
			Sessions:      make([]*sessionDocument, 0, len(rec.Sessions)),
			TotalDuration: secondsOf(rec.Total),
			OnDuty:        &onDuty,
		}
		if since, ok := rec.OpenSince(); ok {
			u.CurrentStart = &since
		}
		for _, s := range rec.Sessions {
			start, end := s.Start, s.End
			u.Sessions = append(u.Sessions, &sessionDocument{Start: &start, End: &end, Duration: secondsOf(s.Duration)})
		}
		doc.Users[id] = u
	}

	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses either the versioned document or the legacy bot file.
// Naive legacy timestamps are read in loc.
func Decode(data []byte, loc *time.Location) (map[string]*models.UserRecord, error) {
	var top map[string]json.RawMessage
	if err := strictUnmarshal(data, &top); err != nil {
		return nil, corrupt("not a JSON object: %v", err)
	}
	if top == nil {
		return nil, corrupt("document is null")
	}

	if _, ok := top["version"]; ok {
		return decodeDocument(data)
	}
	return decodeLegacy(top, loc)
}

func decodeDocument(data []byte) (map[string]*models.UserRecord, error) {
	var doc document
	if err := strictUnmarshal(data, &doc); err != nil {
		return nil, corrupt("decode document: %v", err)
	}
	if doc.Version != formatVersion {
		return nil, corrupt("unsupported version %d", doc.Version)
	}
	if doc.Users == nil {
		return nil, corrupt("missing users")
	}

	raws := make([]rawRecord, 0, len(doc.Users))
	for _, id := range sortedKeys(doc.Users) {
		u := doc.Users[id]
		if u == nil {
			return nil, corrupt("user %s: null record", id)
		}
		if u.DisplayName == nil || u.Sessions == nil || u.TotalDuration == nil || u.OnDuty == nil {
			return nil, corrupt("user %s: missing required field", id)
		}

		raw := rawRecord{
			userID:       id,
			displayName:  *u.DisplayName,
			total:        u.TotalDuration.duration(),
			onDuty:       *u.OnDuty,
			currentStart: u.CurrentStart,
			sessions:     make([]rawSession, 0, len(u.Sessions)),
		}
		for i, s := range u.Sessions {
			if s == nil || s.Start == nil || s.End == nil || s.Duration == nil {
				return nil, corrupt("user %s session %d: missing required field", id, i)
			}
			raw.sessions = append(raw.sessions, rawSession{start: *s.Start, end: *s.End, duration: s.Duration.duration()})
		}
		raws = append(raws, raw)
	}

	return buildAll(raws)
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after document")
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
