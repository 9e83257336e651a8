package sched

// DecayLevel classifies how overdue a topic is for review.
type DecayLevel string

// Possible decay level values, from freshest to most overdue.
const (
	DecayLevelGreen  DecayLevel = "green"
	DecayLevelYellow DecayLevel = "yellow"
	DecayLevelOrange DecayLevel = "orange"
	DecayLevelRed    DecayLevel = "red"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// ReviewIntervals is the spaced-repetition lookup table, indexed by
	// review count and clamped to the last entry.
	ReviewIntervals []int

	// Decay thresholds as fractions of the current interval. A topic whose
	// days-since-review is below GreenRatio*interval is green, below
	// 1.0*interval is yellow, below OrangeRatio*interval is orange, and red
	// beyond that.
	GreenRatio  float64
	OrangeRatio float64

	// DecayWeights maps each decay level to its weight in the combined
	// topic-urgency score.
	DecayWeights map[DecayLevel]int

	// DecayWeightFactor and GoalUrgencyFactor combine decay weight and goal
	// urgency into the topic ranking score. The defaults deliberately weight
	// decay far more heavily than deadline pressure.
	DecayWeightFactor float64
	GoalUrgencyFactor float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	ReviewIntervals   []int
	GreenRatio        float64
	OrangeRatio       float64
	DecayWeightFactor float64
	GoalUrgencyFactor float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		// 1 day after the first exposure, growing to a 30-day cap
		ReviewIntervals: []int{1, 3, 7, 14, 30},

		GreenRatio:  0.5,
		OrangeRatio: 1.5,

		DecayWeights: map[DecayLevel]int{
			DecayLevelRed:    4,
			DecayLevelOrange: 3,
			DecayLevelYellow: 2,
			DecayLevelGreen:  1,
		},

		DecayWeightFactor: 20,
		GoalUrgencyFactor: 0.2,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.ReviewIntervals) > 0 {
		params.ReviewIntervals = config.ReviewIntervals
	}
	if config.GreenRatio > 0 {
		params.GreenRatio = config.GreenRatio
	}
	if config.OrangeRatio > 0 {
		params.OrangeRatio = config.OrangeRatio
	}
	if config.DecayWeightFactor > 0 {
		params.DecayWeightFactor = config.DecayWeightFactor
	}
	if config.GoalUrgencyFactor > 0 {
		params.GoalUrgencyFactor = config.GoalUrgencyFactor
	}

	return params
}
