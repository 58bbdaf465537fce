// Package slots defines the per-file working record threaded through the
// metadata pipeline: one slot per field, each holding a resolved value (or
// the Unknown sentinel) plus the confidence score assigned by the stage that
// resolved it.
package slots

// Unknown is the sentinel for a field no stage could resolve. Every slot in
// a finished record holds either a concrete value or Unknown, never an
// empty unset state.
const Unknown = "Unknown"

// Field names, used as keys into the weight table and quarantine policy.
const (
	FieldLeagueName    = "league_name"
	FieldEventName     = "event_name"
	FieldEpisodeTitle  = "episode_title"
	FieldEpisodePart   = "episode_part"
	FieldAirYear       = "air_year"
	FieldAirMonth      = "air_month"
	FieldAirDay        = "air_day"
	FieldSeasonName    = "season_name"
	FieldCodec         = "codec"
	FieldResolution    = "resolution"
	FieldFPS           = "fps"
	FieldReleaseFormat = "release_format"
	FieldReleaseGroup  = "release_group"
	FieldExtension     = "extension"
)

// Fields lists every slot field in pipeline order.
var Fields = []string{
	FieldLeagueName,
	FieldEventName,
	FieldEpisodeTitle,
	FieldEpisodePart,
	FieldAirYear,
	FieldAirMonth,
	FieldAirDay,
	FieldSeasonName,
	FieldCodec,
	FieldResolution,
	FieldFPS,
	FieldReleaseFormat,
	FieldReleaseGroup,
	FieldExtension,
}

// KnownField reports whether name is one of the pipeline's slot fields.
// Config validation rejects weight and quarantine entries this rejects.
func KnownField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Slot holds one resolved field: its value, the confidence of the stage that
// produced it, and whether any stage filled it at all. An unfilled slot
// reads as Unknown.
type Slot struct {
	value      string
	confidence int
	filled     bool
}

// Value returns the resolved value, or Unknown for an unfilled slot.
func (s Slot) Value() string {
	if !s.filled {
		return Unknown
	}
	return s.value
}

// Confidence returns the score (0-100) assigned by the resolving stage.
func (s Slot) Confidence() int { return s.confidence }

// Filled reports whether a stage filled this slot.
func (s Slot) Filled() bool { return s.filled }

// IsUnknown reports whether the slot holds no usable value.
func (s Slot) IsUnknown() bool { return !s.filled || s.value == Unknown || s.value == "" }

// Record is the mutable per-file slot record. A Record and its confidences
// live for exactly one file: created empty, populated by the resolver chain,
// consumed by the aggregator, then discarded.
type Record struct {
	slots map[string]Slot
}

// NewRecord returns an empty record; every field reads as Unknown with
// confidence 0 until a stage fills it.
func NewRecord() *Record {
	return &Record{slots: make(map[string]Slot, len(Fields))}
}

// Set fills a field. Once filled with a non-Unknown value, later stages must
// not overwrite it except through Override.
func (r *Record) Set(field, value string, confidence int) {
	if existing, ok := r.slots[field]; ok && !existing.IsUnknown() {
		return
	}
	r.slots[field] = Slot{value: value, confidence: confidence, filled: true}
}

// Override replaces a field regardless of its current state. Reserved for
// curated wildcard overrides, which outrank regex-derived values.
func (r *Record) Override(field, value string, confidence int) {
	r.slots[field] = Slot{value: value, confidence: confidence, filled: true}
}

// Clear removes a field entirely. Used for event_name when a file
// legitimately has no event: an absent slot is distinct from a failed
// extraction.
func (r *Record) Clear(field string) {
	delete(r.slots, field)
}

// Get returns the slot for a field. Missing fields read as zero-value slots
// (Unknown, confidence 0, unfilled).
func (r *Record) Get(field string) Slot {
	return r.slots[field]
}

// Value is shorthand for Get(field).Value().
func (r *Record) Value(field string) string { return r.Get(field).Value() }

// Confidence is shorthand for Get(field).Confidence().
func (r *Record) Confidence(field string) int { return r.Get(field).Confidence() }

// Confidences returns the parallel confidence record: field name to score
// for every filled slot, 0 for the rest.
func (r *Record) Confidences() map[string]int {
	out := make(map[string]int, len(Fields))
	for _, f := range Fields {
		out[f] = r.Get(f).Confidence()
	}
	return out
}

// FillUnresolved sets every still-unfilled field to Unknown with confidence
// 0, guaranteeing a complete record at the end of the pipeline. Fields that
// were deliberately cleared stay cleared.
func (r *Record) FillUnresolved(cleared ...string) {
	skip := make(map[string]bool, len(cleared))
	for _, f := range cleared {
		skip[f] = true
	}
	for _, f := range Fields {
		if skip[f] {
			continue
		}
		if _, ok := r.slots[f]; !ok {
			r.slots[f] = Slot{value: Unknown, confidence: 0, filled: true}
		}
	}
}
