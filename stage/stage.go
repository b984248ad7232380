package stage

// Stage is the ordinal severity class predicted by the classifier.
type Stage int

const (
	None Stage = iota
	Early
	Moderate
	Severe
)

const (
	UnknownDescription = "Unknown Stage"
	UnknownPrecaution  = "No precautions available."
)

var description = map[Stage]string{
	None:     "No Cirrhosis.",
	Early:    "Early Cirrhosis (Stage 1).",
	Moderate: "Moderate Cirrhosis (Stage 2).",
	Severe:   "Severe Cirrhosis (Stage 3).",
}

// precaution is keyed by description, so that a stage text received from a
// client maps to the same advice the server would give.
var precaution = map[string]string{
	"No Cirrhosis.":                 "Advise the patient to avoid alcohol, maintain a healthy diet, and monitor liver function if at risk.",
	"Early Cirrhosis (Stage 1).":    "Recommend salt restriction and regular liver function tests. Assess and manage underlying causes like hepatitis or fatty liver.",
	"Moderate Cirrhosis (Stage 2).": "Start dietary modifications, monitor for ascites or varices, and schedule regular follow-ups. Evaluate for complications.",
	"Severe Cirrhosis (Stage 3).":   "Refer to a specialist. Monitor for liver failure symptoms and discuss transplant if needed. Provide intensive supportive care.",
}

func (s Stage) String() string {
	des, ok := description[s]
	if !ok {
		return UnknownDescription
	}

	return des
}

// Describe maps the raw class of a prediction to its stage description and
// precautions.
func Describe(cla int) (string, string) {
	des := Stage(cla).String()
	return des, Precaution(des)
}

func Precaution(des string) string {
	pre, ok := precaution[des]
	if !ok {
		return UnknownPrecaution
	}

	return pre
}

// All returns every known stage description in ordinal order.
func All() []string {
	return []string{None.String(), Early.String(), Moderate.String(), Severe.String()}
}
