package survey

// QuestionEntry pairs the long-form question text used by the form with its canonical field.
type QuestionEntry struct {
	Question string         `json:"question" yaml:"question"`
	Field    CanonicalField `json:"field" yaml:"field"`
}

// DefaultQuestionCatalog returns the question wording of the sleep and academic
// performance questionnaire.
func DefaultQuestionCatalog() []QuestionEntry {
	return []QuestionEntry{
		{"Timestamp", FieldTimestamp},
		{"What is your gender?", FieldGender},
		{"What is your age group?", FieldAgeGroup},
		{"What is your year of study?", FieldYearOfStudy},
		{"Which faculty are you currently enrolled in?", FieldFaculty},
		{"How often do you have difficulty falling asleep at night?", FieldDifficultyFallingAsleep},
		{"On average, how many hours of sleep do you get on a typical day?", FieldSleepHours},
		{"How often do you wake up during the night and have trouble falling back asleep?", FieldNightWakeups},
		{"How would you rate the overall quality of your sleep?", FieldSleepQuality},
		{"At what time do you usually go to bed on weekdays?", FieldBedTime},
		{"Do you usually nap during the day?", FieldDayNap},
		{"How often do you experience difficulty concentrating during lectures or studying due to lack of sleep?", FieldConcentrationDifficulty},
		{"How often do you feel fatigued during the day, affecting your ability to study or attend classes?", FieldDaytimeFatigue},
		{"How often do you miss or skip classes due to sleep-related issues (e.g., insomnia, feeling tired)?", FieldMissedClasses},
		{"How would you describe the impact of insufficient sleep on your ability to complete assignments and meet deadlines?", FieldAssignmentImpact},
		{"During exam periods, how much does your sleep pattern change?", FieldExamSleepChange},
		{"How would you rate your overall academic performance (GPA or grades) in the past semester?", FieldAcademicPerformance},
		{"What is your GPA range for the most recent semester?", FieldGPA},
		{"What is your CGPA range for the most recent semester?", FieldCGPA},
		{"How often do you use electronic devices (e.g., phone, computer) before going to sleep?", FieldDeviceUsage},
		{"How often do you consume caffeine (coffee, energy drinks) to stay awake or alert?", FieldCaffeineConsumption},
		{"How often do you engage in physical activity or exercise?", FieldPhysicalActivity},
		{"How would you describe your stress levels related to academic workload?", FieldStressLevel},
		{"Do you use any methods to help you sleep?", FieldSleepMethods},
	}
}
