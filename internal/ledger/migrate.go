package ledger

import "encoding/json"

// The pre-sessions storage schema kept a single clock-in/clock-out pair
// per day under Spanish field names:
//
//	{ "entrada": {"hora","foto"}, "salida": {...}, "incidencias": [{"hora","foto","nota"}] }
//
// normalize lifts any raw persisted value into the current multi-session
// shape. It is total over the shapes it can meet and idempotent: its
// output always satisfies the "already has sessions" branch.

type legacyStamp struct {
	Hora string `json:"hora"`
	Foto string `json:"foto"`
}

type legacyIncident struct {
	legacyStamp
	Nota string `json:"nota"`
}

// rawRecord carries both schema generations; which one applies is
// decided structurally, by field presence.
type rawRecord struct {
	Sessions    json.RawMessage  `json:"sessions"`
	Entrada     *legacyStamp     `json:"entrada"`
	Salida      *legacyStamp     `json:"salida"`
	Incidencias []legacyIncident `json:"incidencias"`
}

func (st legacyStamp) stamp() Stamp {
	return Stamp{Time: st.Hora, ImageRef: st.Foto}
}

func legacyIncidents(in []legacyIncident) []Incident {
	out := make([]Incident, 0, len(in))
	for _, li := range in {
		out = append(out, Incident{Stamp: li.stamp(), Note: li.Nota})
	}
	return out
}

// normalize parses a raw persisted day value. It returns the record in
// current shape and whether a legacy shape was migrated (callers write
// the normalized form back so later reads skip this path). A nil record
// with nil error means "no data".
func normalize(raw []byte) (rec *DayRecord, migrated bool, err error) {
	if len(raw) == 0 {
		return nil, false, nil
	}

	var probe rawRecord
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false, err
	}

	// Current shape: pass through unchanged.
	if probe.Sessions != nil {
		var r DayRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, false, err
		}
		return &r, false, nil
	}

	switch {
	case probe.Entrada != nil:
		s := Session{
			ClockIn:   probe.Entrada.stamp(),
			Incidents: legacyIncidents(probe.Incidencias),
		}
		if probe.Salida != nil {
			out := probe.Salida.stamp()
			s.ClockOut = &out
		}
		return &DayRecord{Sessions: []Session{s}}, true, nil

	case probe.Salida != nil:
		// A clock-out with no clock-in should not exist; salvage it as
		// the session's clock-in rather than dropping the data.
		return &DayRecord{Sessions: []Session{{
			ClockIn:   probe.Salida.stamp(),
			Incidents: legacyIncidents(probe.Incidencias),
		}}}, true, nil

	case len(probe.Incidencias) > 0:
		return &DayRecord{Sessions: []Session{{
			ClockIn:   Stamp{Time: placeholderTime},
			Incidents: legacyIncidents(probe.Incidencias),
		}}}, true, nil
	}

	return nil, false, nil
}
