// Package analyze offers a rule-based symptom triage that works without
// any trained model. It backs the standalone analysis endpoint and acts
// as the fallback when the predictors cannot serve.
package analyze

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/domain"
)

const (
	maxConditions      = 4
	maxRecommendations = 5

	disclaimer = "This analysis is for educational purposes only and not a substitute for professional medical advice. Seek professional care as needed."
)

// Condition is one possible explanation for the described symptoms, with
// a coarse textual probability rather than a model score.
type Condition struct {
	Name        string `json:"name"`
	Probability string `json:"probability"`
	Description string `json:"description"`
}

// Report is a full rule-based triage. Fallback is always true so clients
// can tell it apart from model output.
type Report struct {
	Conditions      []Condition `json:"conditions"`
	Recommendations []string    `json:"recommendations"`
	UrgencyLevel    string      `json:"urgency_level"`
	Disclaimer      string      `json:"disclaimer"`
	Fallback        bool        `json:"fallback"`
}

var emergencyKeywords = []string{
	"chest pain", "difficulty breathing", "can't breathe", "severe bleeding",
	"unconscious", "seizure", "stroke", "heart attack", "severe head injury",
	"severe abdominal pain", "coughing blood", "suicidal",
}

var urgentKeywords = []string{
	"high fever", "persistent vomiting", "severe pain", "confusion",
	"persistent diarrhea", "dehydration", "spreading rash",
}

type Service struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Service {
	return &Service{logger: logger}
}

// Analyze maps symptom keywords to candidate conditions, care
// recommendations, and an urgency level.
func (s *Service) Analyze(symptoms string) (*Report, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return nil, fmt.Errorf("%w: symptoms are required", domain.ErrValidation)
	}
	lower := strings.ToLower(symptoms)

	report := &Report{
		Conditions:      conditionsFor(lower),
		Recommendations: recommendationsFor(lower),
		UrgencyLevel:    urgencyFor(lower),
		Disclaimer:      disclaimer,
		Fallback:        true,
	}
	s.logger.Debug("rule-based analysis served",
		zap.Int("conditions", len(report.Conditions)),
		zap.String("urgency", report.UrgencyLevel))
	return report, nil
}

func conditionsFor(lower string) []Condition {
	var conditions []Condition

	if (strings.Contains(lower, "fever") || strings.Contains(lower, "temperature")) &&
		(strings.Contains(lower, "cough") || strings.Contains(lower, "throat")) {
		conditions = append(conditions,
			Condition{
				Name:        "Upper Respiratory Infection",
				Probability: "High",
				Description: "Common infection affecting nose, throat, and airways.",
			},
			Condition{
				Name:        "Influenza",
				Probability: "Medium",
				Description: "Viral infection with fever, aches, fatigue, and respiratory symptoms.",
			})
	}
	if strings.Contains(lower, "headache") {
		conditions = append(conditions, Condition{
			Name:        "Tension Headache",
			Probability: "Medium",
			Description: "Often caused by stress, muscle tension, or posture.",
		})
		if strings.Contains(lower, "nausea") || strings.Contains(lower, "light") {
			conditions = append(conditions, Condition{
				Name:        "Migraine",
				Probability: "Medium",
				Description: "Moderate to severe headaches with sensitivity to light/sound.",
			})
		}
	}
	if strings.Contains(lower, "stomach") || strings.Contains(lower, "abdominal") {
		conditions = append(conditions, Condition{
			Name:        "Gastroenteritis",
			Probability: "Medium",
			Description: "Inflammation of stomach and intestines causing pain, nausea, diarrhea.",
		})
	}
	if strings.Contains(lower, "chest pain") || strings.Contains(lower, "chest pressure") {
		conditions = append(conditions, Condition{
			Name:        "Cardiac Event (Requires Immediate Evaluation)",
			Probability: "Unknown - Urgent Evaluation Needed",
			Description: "Chest pain can indicate serious cardiac conditions. Immediate evaluation is essential.",
		})
	}
	if len(conditions) == 0 {
		conditions = []Condition{
			{
				Name:        "General Malaise",
				Probability: "Medium",
				Description: "Non-specific symptoms with various possible causes.",
			},
			{
				Name:        "Viral Infection",
				Probability: "Low to Medium",
				Description: "General symptoms may reflect common viral illness.",
			},
		}
	}
	if len(conditions) > maxConditions {
		conditions = conditions[:maxConditions]
	}
	return conditions
}

func recommendationsFor(lower string) []string {
	recs := []string{"Consult with a healthcare professional for proper diagnosis and treatment plan"}

	if strings.Contains(lower, "fever") {
		recs = append(recs,
			"Monitor temperature and stay hydrated",
			"Rest adequately")
	}
	if strings.Contains(lower, "pain") {
		recs = append(recs,
			"Track pain intensity, location, and triggers",
			"Consider OTC pain relief as appropriate (consult pharmacist)")
	}
	if strings.Contains(lower, "cough") || strings.Contains(lower, "throat") {
		recs = append(recs,
			"Stay hydrated; warm liquids can soothe throat irritation",
			"Avoid irritants like smoke and strong odors")
	}
	recs = append(recs,
		"Document symptoms, onset, and changes in severity",
		"Seek immediate care if symptoms worsen or new concerning symptoms develop")

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func urgencyFor(lower string) string {
	for _, kw := range emergencyKeywords {
		if strings.Contains(lower, kw) {
			return "Emergency - Seek immediate medical attention or call emergency services"
		}
	}
	for _, kw := range urgentKeywords {
		if strings.Contains(lower, kw) {
			return "Urgent - Consult healthcare provider within 24 hours"
		}
	}
	count := strings.Count(lower, ",") + 1
	if strings.Contains(lower, "and") {
		count++
	}
	if count > 3 {
		return "Routine - Schedule appointment with healthcare provider soon"
	}
	return "Monitor - Track symptoms and consult healthcare provider if worsening or persistent"
}
