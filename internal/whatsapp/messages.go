package whatsapp

// Static channel copy. The symptom-update phrases and greeting keywords
// are matched against the lowercased, trimmed message body.

const helpText = "Hi! I'm Bloom, your menopause health assistant. Please send me your question about menopause, diet, exercise, or health consultation."

const welcomeMessage = `🌸 Hello! I am Bloom, your Menopause Health Assistant! 🌸

I'm here to help you with:
• General menopause questions
• Health consultations & symptoms
• Diet & nutrition advice
• Exercise recommendations

Just send me your question and I'll provide personalized guidance!`

const symptomRequest = `To provide you with personalized advice for your health consultation, diet, or exercise question, I'd like to know more about your current situation.

Please describe any symptoms you're experiencing or concerns you have. For example:
• Hot flashes, night sweats, irregular periods
• Mood changes, sleep problems, weight gain
• Last menstrual period date
• Any specific health concerns or goals

🌸 Your symptoms will be saved for future queries. You can update them anytime by typing 'update symptoms'.`

const generalErrorMessage = "I'm sorry, something went wrong. Please try again later."

const processingErrorMessage = "I'm sorry, I encountered an error processing your request. Please try again or contact support."

// updateSymptomsMarker is the synthetic pending query recorded when the
// user explicitly asks to update their cached symptoms.
const updateSymptomsMarker = "update symptoms request"

var greetingKeywords = map[string]bool{
	"hi":    true,
	"hello": true,
	"start": true,
	"help":  true,
}

var updateSymptomsPhrases = map[string]bool{
	"update symptoms": true,
	"change symptoms": true,
	"new symptoms":    true,
}
