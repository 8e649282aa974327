package workout

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/verte-zerg/tuitrail/internal/geo"
)

// FormatVersion is the current persisted layout version.
const FormatVersion = 1

type envelope struct {
	Version  *int     `json:"version"`
	Workouts []record `json:"workouts"`
}

type record struct {
	ID             string     `json:"id"`
	CreatedAt      *time.Time `json:"createdAt"`
	Kind           string     `json:"kind"`
	Coords         []float64  `json:"coords"`
	DistanceKm     *float64   `json:"distanceKm"`
	DurationMin    *float64   `json:"durationMin"`
	CadenceSpm     *float64   `json:"cadenceSpm,omitempty"`
	ElevationGainM *float64   `json:"elevationGainM,omitempty"`
	PaceMinPerKm   *float64   `json:"paceMinPerKm,omitempty"`
	SpeedKmPerH    *float64   `json:"speedKmPerH,omitempty"`
	Description    *string    `json:"description"`
	Clicks         int        `json:"clicks"`
}

// legacyRecord is the unversioned browser localStorage layout.
type legacyRecord struct {
	ID            string     `json:"id"`
	Date          *time.Time `json:"date"`
	Type          string     `json:"type"`
	Coords        []float64  `json:"coords"`
	Distance      *float64   `json:"distance"`
	Duration      *float64   `json:"duration"`
	Cadence       *float64   `json:"cadence"`
	ElevationGain *float64   `json:"elevationGain"`
	Pace          *float64   `json:"pace"`
	Speed         *float64   `json:"speed"`
	Description   *string    `json:"description"`
	Clicks        int        `json:"clicks"`
}

func (l legacyRecord) toRecord() record {
	return record{
		ID:             l.ID,
		CreatedAt:      l.Date,
		Kind:           l.Type,
		Coords:         l.Coords,
		DistanceKm:     l.Distance,
		DurationMin:    l.Duration,
		CadenceSpm:     l.Cadence,
		ElevationGainM: l.ElevationGain,
		PaceMinPerKm:   l.Pace,
		SpeedKmPerH:    l.Speed,
		Description:    l.Description,
		Clicks:         l.Clicks,
	}
}

// Serialize encodes every workout, including the stored metric and description.
func (s *Store) Serialize() ([]byte, error) {
	version := FormatVersion
	env := envelope{Version: &version, Workouts: make([]record, 0, len(s.items))}
	for _, w := range s.items {
		env.Workouts = append(env.Workouts, toRecord(w))
	}
	return json.Marshal(env)
}

// Deserialize rebuilds a store from a persisted blob without re-deriving
// metrics or descriptions. Any invalid record fails the whole load.
func Deserialize(data []byte) (*Store, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DeserializationError{Index: -1, Reason: "empty blob"}
	}

	var records []record
	if trimmed[0] == '[' {
		var legacy []legacyRecord
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return nil, &DeserializationError{Index: -1, Reason: "malformed legacy blob", Err: err}
		}
		records = make([]record, len(legacy))
		for i, l := range legacy {
			records[i] = l.toRecord()
		}
	} else {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, &DeserializationError{Index: -1, Reason: "malformed blob", Err: err}
		}
		if env.Version == nil {
			return nil, &DeserializationError{Index: -1, Reason: `missing field "version"`}
		}
		if *env.Version != FormatVersion {
			return nil, &DeserializationError{Index: -1, Reason: "unsupported version " + strconv.Itoa(*env.Version)}
		}
		records = env.Workouts
	}

	st := NewStore()
	for i, r := range records {
		w, reason := rehydrate(r)
		if reason != "" {
			return nil, &DeserializationError{Index: i, Reason: reason}
		}
		if err := st.Append(w); err != nil {
			return nil, &DeserializationError{Index: i, Reason: "duplicate id", Err: err}
		}
	}
	return st, nil
}

func toRecord(w *Workout) record {
	createdAt := w.createdAt
	distance := w.distanceKm
	duration := w.durationMin
	value := w.kindValue
	metric := w.metric
	description := w.description
	r := record{
		ID:          w.id,
		CreatedAt:   &createdAt,
		Kind:        w.kind.String(),
		Coords:      []float64{w.location.Lat, w.location.Lng},
		DistanceKm:  &distance,
		DurationMin: &duration,
		Description: &description,
		Clicks:      w.clicks,
	}
	if w.kind == Running {
		r.CadenceSpm = &value
		r.PaceMinPerKm = &metric
	} else {
		r.ElevationGainM = &value
		r.SpeedKmPerH = &metric
	}
	return r
}

// rehydrate returns a non-empty reason when the record is unusable.
func rehydrate(r record) (*Workout, string) {
	if r.ID == "" {
		return nil, `missing field "id"`
	}
	if r.CreatedAt == nil {
		return nil, `missing field "createdAt"`
	}
	var kind Kind
	switch r.Kind {
	case "running":
		kind = Running
	case "cycling":
		kind = Cycling
	case "":
		return nil, `missing field "kind"`
	default:
		return nil, "unknown kind " + strconv.Quote(r.Kind)
	}
	if len(r.Coords) != 2 {
		return nil, `field "coords" must hold latitude and longitude`
	}
	loc := geo.Location{Lat: r.Coords[0], Lng: r.Coords[1]}
	if !loc.Valid() {
		return nil, `field "coords" is out of range`
	}
	if r.DistanceKm == nil {
		return nil, `missing field "distanceKm"`
	}
	if r.DurationMin == nil {
		return nil, `missing field "durationMin"`
	}
	if !isFinite(*r.DistanceKm) || *r.DistanceKm <= 0 || !isFinite(*r.DurationMin) || *r.DurationMin <= 0 {
		return nil, "distance and duration must be positive"
	}

	value, metric := r.CadenceSpm, r.PaceMinPerKm
	valueName, metricName := "cadenceSpm", "paceMinPerKm"
	if kind == Cycling {
		value, metric = r.ElevationGainM, r.SpeedKmPerH
		valueName, metricName = "elevationGainM", "speedKmPerH"
	}
	if value == nil {
		return nil, "missing field " + strconv.Quote(valueName)
	}
	if metric == nil {
		return nil, "missing field " + strconv.Quote(metricName)
	}
	if !isFinite(*value) || !isFinite(*metric) {
		return nil, "numeric fields must be finite"
	}
	if r.Description == nil {
		return nil, `missing field "description"`
	}
	clicks := r.Clicks
	if clicks < 0 {
		clicks = 0
	}
	return &Workout{
		id:          r.ID,
		createdAt:   *r.CreatedAt,
		kind:        kind,
		location:    loc,
		distanceKm:  *r.DistanceKm,
		durationMin: *r.DurationMin,
		kindValue:   *value,
		metric:      *metric,
		description: *r.Description,
		clicks:      clicks,
	}, ""
}
