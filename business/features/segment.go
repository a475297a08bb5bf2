package features

const (
	SegmentTraditional = iota
	SegmentHealthy
	SegmentEnergetic
	SegmentAdventurous
	SegmentConservative

	NumUserSegments
)

// UserSegment buckets a respondent into one of NumUserSegments rule-based
// segments. First matching rule wins; conservative is the fallback.
func UserSegment(av AnswerVector) int {
	switch {
	case av.AtLeast(SlotSweetness, 3) && av.AtMost(SlotActivity, 1):
		return SegmentTraditional
	case av.AtLeast(SlotActivity, 3) && (av.Is(SlotSweetness, 0) || av.AtLeast(SlotHealth, 3)):
		return SegmentHealthy
	case av.AtLeast(SlotMood, 3):
		return SegmentEnergetic
	case av.AtLeast(SlotAdventure, 3):
		return SegmentAdventurous
	default:
		return SegmentConservative
	}
}
