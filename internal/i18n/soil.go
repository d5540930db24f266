package i18n

import "github.com/mamadbah2/agricure/internal/soilhealth"

var categoryKeys = map[soilhealth.Category][2]string{
	soilhealth.Excellent: {KeyCategoryExcellent, KeyAdviceExcellent},
	soilhealth.Good:      {KeyCategoryGood, KeyAdviceGood},
	soilhealth.Poor:      {KeyCategoryPoor, KeyAdvicePoor},
	soilhealth.VeryPoor:  {KeyCategoryVeryPoor, KeyAdviceVeryPoor},
}

var statusKeys = map[soilhealth.Status]string{
	soilhealth.StatusOptimal:        KeyStatusOptimal,
	soilhealth.StatusGood:           KeyStatusGood,
	soilhealth.StatusNeedsAttention: KeyStatusNeedsAttention,
	soilhealth.StatusCritical:       KeyStatusCritical,
}

// CategoryLabel localizes a soil health category.
func CategoryLabel(lang Language, c soilhealth.Category) string {
	keys, ok := categoryKeys[c]
	if !ok {
		return string(c)
	}
	return T(lang, keys[0])
}

// Advice localizes the recommendation attached to a category.
func Advice(lang Language, c soilhealth.Category) string {
	keys, ok := categoryKeys[c]
	if !ok {
		return c.Recommendation()
	}
	return T(lang, keys[1])
}

// StatusLabel localizes a per-parameter status.
func StatusLabel(lang Language, s soilhealth.Status) string {
	key, ok := statusKeys[s]
	if !ok {
		return string(s)
	}
	return T(lang, key)
}
