package slots

// Weights maps field name to its relative importance in the aggregate
// confidence. Static per run; fields absent from the table do not
// participate in the weighted mean.
type Weights map[string]int

// DefaultWeights returns the stock field weight table.
func DefaultWeights() Weights {
	return Weights{
		FieldLeagueName:    30,
		FieldAirYear:       15,
		FieldAirMonth:      5,
		FieldAirDay:        5,
		FieldSeasonName:    5,
		FieldEpisodeTitle:  5,
		FieldCodec:         10,
		FieldResolution:    10,
		FieldReleaseFormat: 5,
		FieldReleaseGroup:  10,
		FieldExtension:     10,
	}
}

// QuarantinePolicy flags fields whose Unknown value forces quarantine
// regardless of the aggregate score.
type QuarantinePolicy map[string]bool

// DefaultQuarantinePolicy returns the stock mandatory-field policy.
// event_name is deliberately absent: a file with no event is a valid
// terminal state, not a quarantinable one.
func DefaultQuarantinePolicy() QuarantinePolicy {
	return QuarantinePolicy{
		FieldLeagueName: true,
		FieldAirYear:    true,
		FieldExtension:  true,
	}
}

// Decision is the aggregate outcome for one file.
type Decision struct {
	// Score is the weighted mean of per-field confidences on a 0-1 scale.
	Score float64
	// Quarantine is true when the file needs manual review.
	Quarantine bool
	// ForcedBy names the policy field that forced quarantine, if any.
	ForcedBy string
}

// Aggregate combines per-field confidences into an overall score and a
// quarantine decision. The score is sum(confidence*weight)/sum(weight)
// normalized to 0-1. A mandatory field holding Unknown forces quarantine
// before the threshold is even consulted.
func Aggregate(r *Record, weights Weights, policy QuarantinePolicy, threshold float64) Decision {
	var totalWeight, totalScore int
	for field, weight := range weights {
		if weight <= 0 {
			continue
		}
		totalWeight += weight
		totalScore += weight * r.Confidence(field)
	}

	var score float64
	if totalWeight > 0 {
		score = float64(totalScore) / float64(totalWeight) / 100
	}

	d := Decision{Score: score}

	// Policy fields are checked in Fields order so ForcedBy is stable when
	// more than one mandatory field is Unknown.
	for _, field := range Fields {
		if policy[field] && r.Get(field).IsUnknown() {
			d.Quarantine = true
			d.ForcedBy = field
			return d
		}
	}

	if score < threshold {
		d.Quarantine = true
	}
	return d
}
