package checkin

func NewReflectionData() ReflectionData {
	data := make(ReflectionData, len(ReflectionQuestions))
	for _, q := range ReflectionQuestions {
		data[q.Key] = ReflectionAnswer{}
	}
	return data
}

// NormalizeReflection returns a copy holding every question key. Stored
// answers for known keys are kept; unknown keys are dropped.
func NormalizeReflection(data ReflectionData) ReflectionData {
	out := NewReflectionData()
	for key, answer := range data {
		if _, ok := out[key]; ok {
			out[key] = answer
		}
	}
	return out
}

func IsReflectionQuestion(key string) bool {
	for _, q := range ReflectionQuestions {
		if q.Key == key {
			return true
		}
	}
	return false
}

// SetReflectionAnswer returns an updated copy of data with one response replaced.
func SetReflectionAnswer(data ReflectionData, key, role, text string) (ReflectionData, error) {
	if !IsReflectionQuestion(key) {
		return data, ErrUnknownQuestion
	}
	out := NormalizeReflection(data)
	answer := out[key]
	switch role {
	case RoleSubject:
		answer.SubjectResponse = text
	case RoleReviewer:
		answer.ReviewerResponse = text
	default:
		return data, ErrUnknownRole
	}
	out[key] = answer
	return out, nil
}
