package preprocess

import "strings"

// lemmaExceptions covers irregular forms common in symptom descriptions.
var lemmaExceptions = map[string]string{
	"feet":      "foot",
	"teeth":     "tooth",
	"aching":    "ache",
	"aches":     "ache",
	"ached":     "ache",
	"dizziness": "dizzy",
	"nauseous":  "nausea",
	"nauseated": "nausea",
	"swollen":   "swell",
	"vomited":   "vomit",
	"felt":      "feel",
	"feeling":   "feel",
}

// lemma applies rule-based suffix stripping. It approximates the lemmatizer
// used at training time; the mapping is intentionally conservative so a token
// is never shortened below a recognizable stem.
func lemma(w string) string {
	if l, ok := lemmaExceptions[w]; ok {
		return l
	}

	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	// Compounds like "headaches" and "toothaches" pluralize a stem that
	// already ends in "e"; only the trailing "s" comes off.
	case strings.HasSuffix(w, "aches") && len(w) > 5:
		return w[:len(w)-1]
	case hasAnySuffix(w, "ches", "shes", "sses", "xes", "zes") && len(w) > 4:
		return w[:len(w)-2]
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		return w[:len(w)-3]
	case strings.HasSuffix(w, "ed") && len(w) > 4 && !strings.HasSuffix(w, "eed"):
		return w[:len(w)-2]
	case strings.HasSuffix(w, "s") && len(w) > 3 && !hasAnySuffix(w, "ss", "us", "is"):
		return w[:len(w)-1]
	}
	return w
}

func hasAnySuffix(w string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}
