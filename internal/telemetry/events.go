package telemetry

const (
	EventRecommendation = "recommendation_generated"
	EventFeedback       = "feedback_recorded"
)

// RecommendationProps builds the properties of a recommendation event.
// Confidence is bucketed so individual requests cannot be fingerprinted.
func RecommendationProps(intent, domain, approach string, confidence float64, fallback bool) map[string]any {
	return map[string]any{
		"intent":              intent,
		"domain":              domain,
		"approach":            approach,
		"confidence_bucket":   Bucket(confidence),
		"classifier_fallback": fallback,
	}
}

// FeedbackProps builds the properties of a feedback event.
func FeedbackProps(rating int) map[string]any {
	return map[string]any{"rating": rating}
}

// Bucket maps a 0..100 score onto a coarse label.
func Bucket(score float64) string {
	switch {
	case score >= 90:
		return "90-100"
	case score >= 70:
		return "70-89"
	case score >= 50:
		return "50-69"
	default:
		return "0-49"
	}
}
