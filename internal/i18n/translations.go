package i18n

// Translation keys for soil health output.
const (
	KeyOverallSoilHealth = "dashboard.overallSoilHealth"

	KeyCategoryExcellent = "soilHealth.category.excellent"
	KeyCategoryGood      = "soilHealth.category.good"
	KeyCategoryPoor      = "soilHealth.category.poor"
	KeyCategoryVeryPoor  = "soilHealth.category.veryPoor"

	KeyAdviceExcellent = "soilHealth.advice.excellent"
	KeyAdviceGood      = "soilHealth.advice.good"
	KeyAdvicePoor      = "soilHealth.advice.poor"
	KeyAdviceVeryPoor  = "soilHealth.advice.veryPoor"

	KeyStatusOptimal        = "soilStatus.optimal"
	KeyStatusGood           = "soilStatus.good"
	KeyStatusNeedsAttention = "soilStatus.needsAttention"
	KeyStatusCritical       = "soilStatus.critical"

	KeyParamNitrogen    = "soilParam.nitrogen"
	KeyParamPhosphorus  = "soilParam.phosphorus"
	KeyParamPotassium   = "soilParam.potassium"
	KeyParamPH          = "soilParam.ph"
	KeyParamEC          = "soilParam.ec"
	KeyParamMoisture    = "soilParam.moisture"
	KeyParamTemperature = "soilParam.temperature"
)

var translations = map[Language]map[string]string{
	English: {
		KeyOverallSoilHealth:    "Overall Soil Health",
		KeyCategoryExcellent:    "Excellent",
		KeyCategoryGood:         "Good",
		KeyCategoryPoor:         "Poor",
		KeyCategoryVeryPoor:     "Very Poor",
		KeyAdviceExcellent:      "Maintain current soil management practices",
		KeyAdviceGood:           "Apply balanced fertilizer to optimize nutrient levels",
		KeyAdvicePoor:           "Add organic matter and adjust nutrient levels urgently",
		KeyAdviceVeryPoor:       "Rebuild soil health urgently; consult an agronomist",
		KeyStatusOptimal:        "Optimal",
		KeyStatusGood:           "Good",
		KeyStatusNeedsAttention: "Needs Attention",
		KeyStatusCritical:       "Critical",
		KeyParamNitrogen:        "Nitrogen",
		KeyParamPhosphorus:      "Phosphorus",
		KeyParamPotassium:       "Potassium",
		KeyParamPH:              "pH Level",
		KeyParamEC:              "Electrical Conductivity",
		KeyParamMoisture:        "Soil Moisture",
		KeyParamTemperature:     "Soil Temperature",
	},
	Hindi: {
		KeyOverallSoilHealth:    "समग्र मिट्टी स्वास्थ्य",
		KeyCategoryExcellent:    "उत्कृष्ट",
		KeyCategoryGood:         "अच्छा",
		KeyCategoryPoor:         "खराब",
		KeyCategoryVeryPoor:     "बहुत खराब",
		KeyAdviceExcellent:      "वर्तमान मिट्टी प्रबंधन पद्धतियों को जारी रखें",
		KeyAdviceGood:           "पोषक तत्वों के स्तर को बेहतर बनाने के लिए संतुलित उर्वरक डालें",
		KeyAdvicePoor:           "जैविक पदार्थ मिलाएं और पोषक तत्वों के स्तर को तुरंत ठीक करें",
		KeyAdviceVeryPoor:       "मिट्टी के स्वास्थ्य को तुरंत सुधारें; कृषि विशेषज्ञ से सलाह लें",
		KeyStatusOptimal:        "इष्टतम",
		KeyStatusGood:           "अच्छा",
		KeyStatusNeedsAttention: "ध्यान देने की आवश्यकता",
		KeyStatusCritical:       "गंभीर",
		KeyParamNitrogen:        "नाइट्रोजन",
		KeyParamPhosphorus:      "फॉस्फोरस",
		KeyParamPotassium:       "पोटैशियम",
		KeyParamPH:              "पीएच स्तर",
		KeyParamEC:              "विद्युत चालकता",
		KeyParamMoisture:        "मिट्टी की नमी",
		KeyParamTemperature:     "मिट्टी का तापमान",
	},
	Punjabi: {
		KeyOverallSoilHealth:    "ਸਮੁੱਚੀ ਮਿੱਟੀ ਸਿਹਤ",
		KeyCategoryExcellent:    "ਸ਼ਾਨਦਾਰ",
		KeyCategoryGood:         "ਚੰਗਾ",
		KeyCategoryPoor:         "ਮਾੜਾ",
		KeyCategoryVeryPoor:     "ਬਹੁਤ ਮਾੜਾ",
		KeyAdviceExcellent:      "ਮੌਜੂਦਾ ਮਿੱਟੀ ਪ੍ਰਬੰਧਨ ਤਰੀਕੇ ਜਾਰੀ ਰੱਖੋ",
		KeyAdviceGood:           "ਪੋਸ਼ਕ ਤੱਤਾਂ ਦੇ ਪੱਧਰ ਸੁਧਾਰਨ ਲਈ ਸੰਤੁਲਿਤ ਖਾਦ ਪਾਓ",
		KeyAdvicePoor:           "ਜੈਵਿਕ ਪਦਾਰਥ ਮਿਲਾਓ ਅਤੇ ਪੋਸ਼ਕ ਤੱਤਾਂ ਨੂੰ ਤੁਰੰਤ ਠੀਕ ਕਰੋ",
		KeyAdviceVeryPoor:       "ਮਿੱਟੀ ਦੀ ਸਿਹਤ ਤੁਰੰਤ ਸੁਧਾਰੋ; ਖੇਤੀ ਮਾਹਿਰ ਨਾਲ ਸਲਾਹ ਕਰੋ",
		KeyStatusOptimal:        "ਵਧੀਆ",
		KeyStatusGood:           "ਚੰਗਾ",
		KeyStatusNeedsAttention: "ਧਿਆਨ ਦੀ ਲੋੜ",
		KeyStatusCritical:       "ਗੰਭੀਰ",
		KeyParamNitrogen:        "ਨਾਈਟ੍ਰੋਜਨ",
		KeyParamPhosphorus:      "ਫਾਸਫੋਰਸ",
		KeyParamPotassium:       "ਪੋਟਾਸ਼ੀਅਮ",
		KeyParamPH:              "ਪੀਐਚ ਪੱਧਰ",
		KeyParamEC:              "ਬਿਜਲਈ ਚਾਲਕਤਾ",
		KeyParamMoisture:        "ਮਿੱਟੀ ਦੀ ਨਮੀ",
		KeyParamTemperature:     "ਮਿੱਟੀ ਦਾ ਤਾਪਮਾਨ",
	},
}

// T translates key into lang, falling back to English and then to the key.
func T(lang Language, key string) string {
	if v, ok := translations[lang][key]; ok {
		return v
	}
	if v, ok := translations[English][key]; ok {
		return v
	}
	return key
}
