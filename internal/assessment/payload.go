package assessment

import "strings"

// Wellness score weights applied to the raw health and exercise answers
const (
	HealthWeight   = 0.45
	ExerciseWeight = 0.55
)

// NumericKeys is the fixed order of rescaled features sent to the lifestyle
// model. The wellness score is appended after these.
var NumericKeys = []string{
	KeyAge,
	KeyVacationDays,
	KeyMonthlySpend,
	KeyOnlinePurchases,
	KeyCharityDonations,
	KeyWeeklyExercise,
	KeyPortfolioValue,
	KeyHealthConsciousness,
	KeyEducationLevel,
	KeyDailyScreenTime,
	KeyEnvironmentalAwareness,
	KeySocialMediaInfluence,
	KeyRiskTolerance,
	KeyProfessionalTrainings,
	KeyTechSavviness,
	KeyFinancialWellness,
	KeyLifestyleBalance,
	KeyEntertainment,
	KeySocialResponsibility,
	KeyWorkLifeBalance,
	KeyInvestmentRisk,
	KeyEcoConsciousness,
	KeyStressManagement,
	KeyTimeManagement,
}

// NumericLength is the length of Payload.Numeric
var NumericLength = len(NumericKeys) + 1

// genderAliases maps accepted gender labels to their model code
var genderAliases = map[string]int{
	GenderMale:        0,
	"ชาย":             0,
	GenderFemale:      1,
	"หญิง":            1,
	GenderUnspecified: 0,
}

// Payload is the feature vector for the lifestyle model
type Payload struct {
	Numeric     []float64 `json:"numeric"`
	Categorical []int     `json:"categorical"`
}

// StressFeatures is the raw feature set for the stress model
type StressFeatures struct {
	ScreenTimeHours          float64 `json:"screen_time_hours"`
	SocialMediaPlatformsUsed int     `json:"social_media_platforms_used"`
	HoursOnTikTok            float64 `json:"hours_on_TikTok"`
	SleepHours               float64 `json:"sleep_hours"`
	MoodScore                int     `json:"mood_score"`
}

// EncodeGender returns 1 for the female label and 0 for anything else
func EncodeGender(label string) int {
	return genderAliases[strings.ToLower(strings.TrimSpace(label))]
}

// WellnessScore combines the raw health rating and weekly exercise hours
func WellnessScore(answers Answers) float64 {
	health := ParseNumber(answers.Get(KeyHealthConsciousness))
	exercise := ParseNumber(answers.Get(KeyWeeklyExercise))
	return health*HealthWeight + exercise*ExerciseWeight
}

// BuildPayload turns an answer set into the lifestyle feature vector. It never
// fails: missing or malformed values contribute 0 before rescaling.
func BuildPayload(answers Answers) Payload {
	numeric := make([]float64, 0, NumericLength)
	for _, key := range NumericKeys {
		numeric = append(numeric, RescaleRaw(key, answers.Get(key)))
	}
	numeric = append(numeric, WellnessScore(answers))

	return Payload{
		Numeric:     numeric,
		Categorical: []int{EncodeGender(answers.Get(KeyGender))},
	}
}

// BuildStressFeatures extracts the stress model inputs without rescaling
func BuildStressFeatures(answers Answers) StressFeatures {
	return StressFeatures{
		ScreenTimeHours:          ParseNumber(answers.Get(KeyDailyScreenTime)),
		SocialMediaPlatformsUsed: int(ParseNumber(answers.Get(KeySocialMediaPlatforms))),
		HoursOnTikTok:            ParseNumber(answers.Get(KeyTikTokHours)),
		SleepHours:               ParseNumber(answers.Get(KeySleepHours)),
		MoodScore:                int(ParseNumber(answers.Get(KeyMoodScore))),
	}
}
