package assessment

// FieldKind distinguishes free numeric answers from fixed-choice answers
type FieldKind string

const (
	KindNumeric FieldKind = "numeric"
	KindChoice  FieldKind = "choice"
)

// StepCount is the number of questionnaire steps
const StepCount = 4

// Field keys
const (
	KeyAge                    = "age"
	KeyGender                 = "gender"
	KeyVacationDays           = "vacationDays"
	KeyMonthlySpend           = "monthlySpend"
	KeyOnlinePurchases        = "onlinePurchases"
	KeyCharityDonations       = "charityDonations"
	KeyWeeklyExercise         = "weeklyExercise"
	KeyPortfolioValue         = "portfolioValue"
	KeyHealthConsciousness    = "healthConsciousness"
	KeyEducationLevel         = "educationLevel"
	KeyDailyScreenTime        = "dailyScreenTime"
	KeyEnvironmentalAwareness = "environmentalAwareness"
	KeySocialMediaInfluence   = "socialMediaInfluence"
	KeySocialMediaPlatforms   = "socialMediaPlatforms"
	KeyTikTokHours            = "tiktokHours"
	KeyRiskTolerance          = "riskTolerance"
	KeyProfessionalTrainings  = "professionalTrainings"
	KeyTechSavviness          = "techSavviness"
	KeyFinancialWellness      = "financialWellness"
	KeyLifestyleBalance       = "lifestyleBalance"
	KeyEntertainment          = "entertainmentEngagement"
	KeySocialResponsibility   = "socialResponsibility"
	KeyWorkLifeBalance        = "workLifeBalance"
	KeyInvestmentRisk         = "investmentRiskAppetite"
	KeyEcoConsciousness       = "ecoConsciousness"
	KeyStressManagement       = "stressManagement"
	KeyTimeManagement         = "timeManagement"
	KeySleepHours             = "sleepHours"
	KeyMoodScore              = "moodScore"
)

// Gender choice labels
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderUnspecified = "unspecified"
)

// FieldSpec describes a single questionnaire field.
// Min and Max are inclusive and only checked when HasRange is set.
type FieldSpec struct {
	Key      string    `json:"key"`
	Step     int       `json:"step"`
	Kind     FieldKind `json:"kind"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
	HasRange bool      `json:"has_range"`
	Min      float64   `json:"min,omitempty"`
	Max      float64   `json:"max,omitempty"`
	Choices  []string  `json:"choices,omitempty"`
}

// InRange reports whether v satisfies the field's declared bounds
func (f FieldSpec) InRange(v float64) bool {
	if !f.HasRange {
		return true
	}
	return v >= f.Min && v <= f.Max
}

func numeric(key string, step int, label string) FieldSpec {
	return FieldSpec{Key: key, Step: step, Kind: KindNumeric, Label: label, Required: true}
}

func bounded(key string, step int, label string, min, max float64) FieldSpec {
	f := numeric(key, step, label)
	f.HasRange = true
	f.Min = min
	f.Max = max
	return f
}

// likert is a 1..5 agreement scale
func likert(key string, step int, label string) FieldSpec {
	return bounded(key, step, label, 1, 5)
}

var fields = []FieldSpec{
	// Step 1: demographics and spending
	bounded(KeyAge, 1, "Age", 1, 120),
	{
		Key: KeyGender, Step: 1, Kind: KindChoice, Label: "Gender", Required: true,
		Choices: []string{GenderMale, GenderFemale, GenderUnspecified},
	},
	bounded(KeyVacationDays, 1, "Vacation days per year", 0, 366),
	bounded(KeyMonthlySpend, 1, "Monthly spending", 0, 1e9),
	bounded(KeyOnlinePurchases, 1, "Online purchases per month", 0, 1000),
	bounded(KeyCharityDonations, 1, "Charity donations per year", 0, 1000),
	bounded(KeyWeeklyExercise, 1, "Exercise hours per week", 0, 168),

	// Step 2: health and media
	bounded(KeyPortfolioValue, 2, "Investment portfolio value", 0, 1e12),
	likert(KeyHealthConsciousness, 2, "Health consciousness"),
	bounded(KeyEducationLevel, 2, "Education level", 1, 8),
	bounded(KeyDailyScreenTime, 2, "Screen time hours per day", 0, 24),
	likert(KeyEnvironmentalAwareness, 2, "Environmental awareness"),
	likert(KeySocialMediaInfluence, 2, "Social media influence"),
	bounded(KeySocialMediaPlatforms, 2, "Social media platforms used", 0, 50),
	bounded(KeyTikTokHours, 2, "TikTok hours per day", 0, 24),

	// Step 3: work and money
	likert(KeyRiskTolerance, 3, "Risk tolerance"),
	bounded(KeyProfessionalTrainings, 3, "Professional trainings per year", 0, 365),
	likert(KeyTechSavviness, 3, "Tech savviness"),
	likert(KeyFinancialWellness, 3, "Financial wellness"),
	likert(KeyLifestyleBalance, 3, "Lifestyle balance"),
	likert(KeyEntertainment, 3, "Entertainment engagement"),

	// Step 4: values and wellbeing
	likert(KeySocialResponsibility, 4, "Social responsibility"),
	likert(KeyWorkLifeBalance, 4, "Work-life balance"),
	likert(KeyInvestmentRisk, 4, "Investment risk appetite"),
	likert(KeyEcoConsciousness, 4, "Eco consciousness"),
	likert(KeyStressManagement, 4, "Stress management"),
	likert(KeyTimeManagement, 4, "Time management"),
	bounded(KeySleepHours, 4, "Sleep hours per night", 0, 24),
	bounded(KeyMoodScore, 4, "Mood score", 1, 10),
}

var (
	fieldIndex = make(map[string]FieldSpec, len(fields))
	stepFields = make(map[int][]FieldSpec, StepCount)
)

func init() {
	for _, f := range fields {
		fieldIndex[f.Key] = f
		stepFields[f.Step] = append(stepFields[f.Step], f)
	}
}

// Fields returns every field in step order. The slice is a copy.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(fields))
	copy(out, fields)
	return out
}

// StepFields returns the fields belonging to step, or nil for an unknown step
func StepFields(step int) []FieldSpec {
	fs, ok := stepFields[step]
	if !ok {
		return nil
	}
	out := make([]FieldSpec, len(fs))
	copy(out, fs)
	return out
}

// Field looks up a field by key
func Field(key string) (FieldSpec, bool) {
	f, ok := fieldIndex[key]
	return f, ok
}

// IsKnownStep reports whether step is in 1..StepCount
func IsKnownStep(step int) bool {
	return step >= 1 && step <= StepCount
}

// Step groups a step number with its fields, used when serving the schema
type Step struct {
	Number int         `json:"number"`
	Fields []FieldSpec `json:"fields"`
}

// Schema returns all steps with their fields
func Schema() []Step {
	steps := make([]Step, 0, StepCount)
	for n := 1; n <= StepCount; n++ {
		steps = append(steps, Step{Number: n, Fields: StepFields(n)})
	}
	return steps
}
