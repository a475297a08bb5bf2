package features

import "refrescobot/domain"

const (
	UserTypeNoConsumer = "no_consumer"
	UserTypeTest       = "test_user"
	UserTypeRegular    = "regular"
)

const (
	minLatencies       = 3
	fastAnswerSeconds  = 2.0
	fastShareThreshold = 0.7
	meanLatencyFloor   = 3.0
	minPositions       = 4
)

// DetectUserType classifies the respondent behind answers. Sessions that
// answer too fast or click options in a fixed pattern are test users; their
// ratings are still stored but marked synthetic.
func DetectUserType(answers []domain.QuizAnswer) string {
	if len(answers) > 0 {
		if sv, ok := tokenSlots[answers[0].ValueToken]; ok && sv.slot == SlotConsumption && sv.value == 0 {
			return UserTypeNoConsumer
		}
	}
	if answeredTooFast(answers) || patternedPositions(answers) {
		return UserTypeTest
	}
	return UserTypeRegular
}

func answeredTooFast(answers []domain.QuizAnswer) bool {
	var n, fast int
	var sum float64
	for _, a := range answers {
		if a.LatencySeconds <= 0 {
			continue
		}
		n++
		sum += a.LatencySeconds
		if a.LatencySeconds < fastAnswerSeconds {
			fast++
		}
	}
	if n < minLatencies {
		return false
	}
	return float64(fast)/float64(n) > fastShareThreshold || sum/float64(n) < meanLatencyFloor
}

// patternedPositions reports a constant or monotonic run of chosen option
// positions. Position 0 means unknown and is skipped.
func patternedPositions(answers []domain.QuizAnswer) bool {
	var pos []int
	for _, a := range answers {
		if a.Position > 0 {
			pos = append(pos, a.Position)
		}
	}
	if len(pos) < minPositions {
		return false
	}
	up, down := true, true
	for i := 1; i < len(pos); i++ {
		if pos[i] < pos[i-1] {
			up = false
		}
		if pos[i] > pos[i-1] {
			down = false
		}
	}
	return up || down
}
