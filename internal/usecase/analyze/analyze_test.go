package analyze

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/medreserve/predict/internal/domain"
)

func TestAnalyze_RespiratoryCluster(t *testing.T) {
	s := New(zap.NewNop())

	report, err := s.Analyze("I have a fever and a sore throat")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !report.Fallback {
		t.Fatal("fallback flag not set")
	}
	if report.Conditions[0].Name != "Upper Respiratory Infection" {
		t.Fatalf("first condition = %q", report.Conditions[0].Name)
	}
	if report.Conditions[1].Name != "Influenza" {
		t.Fatalf("second condition = %q", report.Conditions[1].Name)
	}
	found := false
	for _, r := range report.Recommendations {
		if strings.Contains(r, "Monitor temperature") {
			found = true
		}
	}
	if !found {
		t.Fatalf("fever recommendation missing: %v", report.Recommendations)
	}
	if report.Disclaimer == "" {
		t.Fatal("disclaimer missing")
	}
}

func TestAnalyze_GeneralMalaiseDefault(t *testing.T) {
	s := New(zap.NewNop())

	report, err := s.Analyze("just feeling off lately")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Conditions) != 2 {
		t.Fatalf("conditions = %d, want 2 defaults", len(report.Conditions))
	}
	if report.Conditions[0].Name != "General Malaise" {
		t.Fatalf("default condition = %q", report.Conditions[0].Name)
	}
}

func TestAnalyze_CapsListLengths(t *testing.T) {
	s := New(zap.NewNop())

	report, err := s.Analyze("fever, cough, headache with nausea, stomach pain")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(report.Conditions) > 4 {
		t.Fatalf("conditions = %d, want at most 4", len(report.Conditions))
	}
	if len(report.Recommendations) > 5 {
		t.Fatalf("recommendations = %d, want at most 5", len(report.Recommendations))
	}
}

func TestAnalyze_UrgencyLevels(t *testing.T) {
	s := New(zap.NewNop())

	cases := []struct {
		in   string
		want string
	}{
		{"sudden chest pain and sweating", "Emergency"},
		{"high fever for two days", "Urgent"},
		{"fatigue, chills, aches, and sore muscles", "Routine"},
		{"mild cough", "Monitor"},
	}
	for _, tc := range cases {
		report, err := s.Analyze(tc.in)
		if err != nil {
			t.Fatalf("Analyze(%q): %v", tc.in, err)
		}
		if !strings.HasPrefix(report.UrgencyLevel, tc.want) {
			t.Errorf("Analyze(%q) urgency = %q, want prefix %q", tc.in, report.UrgencyLevel, tc.want)
		}
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	s := New(zap.NewNop())

	_, err := s.Analyze("   ")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
