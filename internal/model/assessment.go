package model

import "time"

// LifestylePrediction is the lifestyle model's response
type LifestylePrediction struct {
	SoftmaxProbs        []float64 `json:"softmax_probs"`
	PredClassIdx        int       `json:"pred_class_idx"`
	PredClassName       string    `json:"pred_class_name"`
	SigmoidProbs        []float64 `json:"sigmoid_probs"`
	PredMultilabelIdx   []int     `json:"pred_multilabel_idx"`
	PredMultilabelNames []string  `json:"pred_multilabel_names"`
}

// StressPrediction is the stress model's response
type StressPrediction struct {
	StressLevelClass int `json:"stress_level_class"`
}

// AssessmentResult is the immutable outcome of one questionnaire submission.
// Raw answers are not retained.
type AssessmentResult struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Lifestyle     LifestylePrediction `json:"lifestyle"`
	StressLevel   int                 `json:"stress_level"`
	WellnessScore float64             `json:"wellness_score"`
	LifestyleIDs  []int               `json:"lifestyle_ids"`
	SubmittedOn   time.Time           `json:"submitted_on"`
}

// PrimaryLifestyle returns the top-ranked lifestyle class
func (r *AssessmentResult) PrimaryLifestyle() int {
	return r.Lifestyle.PredClassIdx
}

// LifestyleIDsFor merges the top class with the multilabel classes, keeping
// first-seen order and dropping unknown ids
func LifestyleIDsFor(p LifestylePrediction) []int {
	seen := make(map[int]bool, len(p.PredMultilabelIdx)+1)
	ids := make([]int, 0, len(p.PredMultilabelIdx)+1)
	for _, id := range append([]int{p.PredClassIdx}, p.PredMultilabelIdx...) {
		if !IsKnownLifestyle(id) || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
