package assessment

// CurrencyDivisor converts the currency fields into the unit the model was
// trained on
const CurrencyDivisor = 36.5

// scaleRange is a min-max rule. The source minimum is always 1.
type scaleRange struct {
	OldMax float64
	NewMin float64
	NewMax float64
}

const oldMin = 1.0

var rescaleTable = map[string]scaleRange{
	KeyHealthConsciousness:    {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyEducationLevel:         {OldMax: 8, NewMin: 0, NewMax: 7},
	KeyEnvironmentalAwareness: {OldMax: 5, NewMin: 0, NewMax: 10},
	KeySocialMediaInfluence:   {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyRiskTolerance:          {OldMax: 5, NewMin: 0, NewMax: 49},
	KeyTechSavviness:          {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyFinancialWellness:      {OldMax: 5, NewMin: 0, NewMax: 100},
	KeyLifestyleBalance:       {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyEntertainment:          {OldMax: 5, NewMin: 0.1, NewMax: 10},
	KeySocialResponsibility:   {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyWorkLifeBalance:        {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyInvestmentRisk:         {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyEcoConsciousness:       {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyStressManagement:       {OldMax: 5, NewMin: 0, NewMax: 10},
	KeyTimeManagement:         {OldMax: 5, NewMin: 0, NewMax: 10},
}

var currencyKeys = map[string]bool{
	KeyMonthlySpend:   true,
	KeyPortfolioValue: true,
}

// Rescale maps a raw value into the range the prediction model expects.
// Values outside the source range are extrapolated, not clamped. Keys with
// no rule pass through unchanged.
func Rescale(key string, value float64) float64 {
	if currencyKeys[key] {
		return value / CurrencyDivisor
	}
	r, ok := rescaleTable[key]
	if !ok {
		return value
	}
	return r.NewMin + ((value-oldMin)/(r.OldMax-oldMin))*(r.NewMax-r.NewMin)
}

// RescaleRaw parses raw and rescales it. Blank or malformed input is treated
// as 0 before rescaling.
func RescaleRaw(key, raw string) float64 {
	return Rescale(key, ParseNumber(raw))
}
