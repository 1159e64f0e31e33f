package explain

// Info is everything the service knows about one medical condition.
type Info struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Explanation          string   `json:"explanation"`
	Symptoms             []string `json:"symptoms"`
	Complications        []string `json:"complications"`
	Management           []string `json:"management"`
	RecommendedSpecialty string   `json:"recommended_specialty"`
	Source               string   `json:"source"`
}

var conditions = map[string]Info{
	"hypertension": {
		Name:        "Hypertension (High Blood Pressure)",
		Description: "A condition where blood pressure in the arteries is persistently elevated.",
		Explanation: "Often called the 'silent killer' because it usually has no symptoms until complications develop.",
		Symptoms:    []string{"Headaches", "Shortness of breath", "Nosebleeds", "Chest pain"},
		Complications: []string{
			"Heart disease", "Stroke", "Kidney disease", "Vision problems",
		},
		Management: []string{
			"Maintain healthy weight", "Exercise regularly", "Limit sodium intake",
			"Manage stress", "Take prescribed medications",
		},
		RecommendedSpecialty: "Cardiology",
	},
	"diabetes": {
		Name:        "Diabetes Mellitus",
		Description: "A group of metabolic disorders characterized by high blood sugar levels.",
		Explanation: "Occurs when the body doesn't produce enough insulin or can't effectively use the insulin it produces.",
		Symptoms: []string{
			"Frequent urination", "Excessive thirst", "Unexplained weight loss", "Fatigue", "Blurred vision",
		},
		Complications: []string{
			"Heart disease", "Kidney damage", "Nerve damage", "Eye damage", "Foot problems",
		},
		Management: []string{
			"Monitor blood sugar", "Follow diabetic diet", "Exercise regularly",
			"Take medications as prescribed", "Regular check-ups",
		},
		RecommendedSpecialty: "Endocrinology",
	},
	"asthma": {
		Name:        "Asthma",
		Description: "A respiratory condition where airways narrow and swell, producing extra mucus.",
		Explanation: "Can make breathing difficult and trigger coughing, wheezing, and shortness of breath.",
		Symptoms: []string{
			"Shortness of breath", "Chest tightness", "Wheezing", "Coughing",
			"Difficulty sleeping due to breathing problems",
		},
		Complications: []string{
			"Severe asthma attacks", "Permanent airway changes", "Respiratory failure",
		},
		Management: []string{
			"Avoid triggers", "Use prescribed inhalers", "Monitor symptoms",
			"Get vaccinated", "Maintain healthy lifestyle",
		},
		RecommendedSpecialty: "Pulmonology",
	},
	"arthritis": {
		Name:        "Arthritis",
		Description: "Inflammation of one or more joints, causing pain and stiffness.",
		Explanation: "Most common types are osteoarthritis and rheumatoid arthritis, affecting millions worldwide.",
		Symptoms: []string{
			"Joint pain", "Stiffness", "Swelling", "Reduced range of motion", "Fatigue",
		},
		Complications: []string{
			"Joint damage", "Disability", "Chronic pain", "Reduced quality of life",
		},
		Management: []string{
			"Stay active", "Maintain healthy weight", "Use hot/cold therapy",
			"Take prescribed medications", "Physical therapy",
		},
		RecommendedSpecialty: "Rheumatology",
	},
	"depression": {
		Name:        "Depression",
		Description: "A mental health disorder characterized by persistent feelings of sadness and loss of interest.",
		Explanation: "More than just feeling sad, depression affects how you think, feel, and handle daily activities.",
		Symptoms: []string{
			"Persistent sadness", "Loss of interest", "Fatigue", "Sleep problems", "Difficulty concentrating",
		},
		Complications: []string{
			"Suicide risk", "Substance abuse", "Relationship problems", "Work/school difficulties",
		},
		Management: []string{
			"Seek professional help", "Stay connected with others", "Exercise regularly",
			"Get enough sleep", "Consider therapy/medication",
		},
		RecommendedSpecialty: "Psychiatry",
	},
	"migraine": {
		Name:        "Migraine",
		Description: "A neurological condition characterized by intense, debilitating headaches.",
		Explanation: "Often accompanied by nausea, vomiting, and sensitivity to light and sound.",
		Symptoms: []string{
			"Severe headache", "Nausea", "Vomiting", "Light sensitivity", "Sound sensitivity",
		},
		Complications: []string{
			"Chronic daily headaches", "Medication overuse headaches", "Status migrainosus",
		},
		Management: []string{
			"Identify triggers", "Maintain regular sleep", "Stay hydrated",
			"Manage stress", "Take preventive medications",
		},
		RecommendedSpecialty: "Neurology",
	},
	"eczema": {
		Name:        "Eczema (Atopic Dermatitis)",
		Description: "A condition that makes skin red, inflamed, and itchy.",
		Explanation: "Common in children but can occur at any age, often associated with allergies and asthma.",
		Symptoms: []string{
			"Itchy skin", "Red patches", "Dry skin", "Skin thickening", "Small bumps",
		},
		Complications: []string{
			"Skin infections", "Sleep problems", "Scarring", "Social/emotional issues",
		},
		Management: []string{
			"Moisturize regularly", "Avoid triggers", "Use gentle skincare",
			"Manage stress", "Follow treatment plan",
		},
		RecommendedSpecialty: "Dermatology",
	},
	"gerd": {
		Name:        "GERD (Gastroesophageal Reflux Disease)",
		Description: "A digestive disorder where stomach acid frequently flows back into the esophagus.",
		Explanation: "Occurs when the lower esophageal sphincter weakens or relaxes inappropriately.",
		Symptoms: []string{
			"Heartburn", "Regurgitation", "Chest pain", "Difficulty swallowing", "Chronic cough",
		},
		Complications: []string{
			"Esophageal damage", "Barrett's esophagus", "Esophageal cancer", "Respiratory problems",
		},
		Management: []string{
			"Avoid trigger foods", "Eat smaller meals", "Don't lie down after eating",
			"Maintain healthy weight", "Take prescribed medications",
		},
		RecommendedSpecialty: "Gastroenterology",
	},
}

var genericInfo = Info{
	Name:        "Medical Condition",
	Description: "We don't have specific information about this condition in our database.",
	Explanation: "Please consult with a healthcare professional for accurate information about your specific condition.",
	Symptoms:    []string{"Symptoms vary by condition"},
	Complications: []string{
		"Complications depend on the specific condition",
	},
	Management: []string{
		"Follow your doctor's advice", "Take medications as prescribed", "Maintain regular check-ups",
	},
	RecommendedSpecialty: "General Medicine",
}
