package cry

// CareAdvice pairs a predicted cry reason with caregiver guidance. The
// guidance is general comfort advice, not a medical diagnosis.
type CareAdvice struct {
	Category    string   `json:"category"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions,omitempty"`
	SeekHelp    string   `json:"seekHelp,omitempty"`
}

var careGuide = map[string]CareAdvice{
	"belly_pain": {
		Category: "belly_pain",
		Summary:  "The cry pattern points to abdominal discomfort.",
		Suggestions: []string{
			"Lay the baby on their back and gently cycle their legs",
			"Massage the tummy in slow clockwise circles",
			"Hold the baby upright for 20-30 minutes after feeds",
			"Check whether the belly feels hard or bloated",
		},
		SeekHelp: "Contact a pediatrician if the belly stays hard, the crying lasts over two hours, or fever or vomiting appears.",
	},
	"burping": {
		Category: "burping",
		Summary:  "The cry pattern points to trapped wind after feeding.",
		Suggestions: []string{
			"Hold the baby against your shoulder and pat the back gently",
			"Sit the baby upright on your lap, supporting the chin",
			"Pause halfway through feeds for a short burping break",
		},
	},
	"discomfort": {
		Category: "discomfort",
		Summary:  "The cry pattern points to physical discomfort.",
		Suggestions: []string{
			"Check and change the diaper",
			"Look for tight clothing, scratchy tags or trapped hair",
			"Check the room temperature and adjust layers",
			"Change the baby's position or pick them up",
		},
	},
	"hungry": {
		Category: "hungry",
		Summary:  "The cry pattern points to hunger.",
		Suggestions: []string{
			"Offer a feed",
			"Watch for rooting and hand-sucking cues before the cry builds",
			"Keep a simple feeding log to spot the pattern earlier",
		},
	},
	"tired": {
		Category: "tired",
		Summary:  "The cry pattern points to tiredness.",
		Suggestions: []string{
			"Dim the lights and reduce noise and stimulation",
			"Swaddle younger babies snugly",
			"Rock gently or use steady white noise",
		},
	},
}

// CareAdviceFor returns guidance for a predicted category. Unknown
// categories return nil.
func CareAdviceFor(category string) *CareAdvice {
	advice, ok := careGuide[category]
	if !ok {
		return nil
	}
	out := advice
	return &out
}
