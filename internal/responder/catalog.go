package responder

import (
	"log/slog"

	"github.com/bloomagain/bloombot/internal/ai"
	"github.com/bloomagain/bloombot/internal/classify"
)

// NewGeneral answers educational questions about menopause.
func NewGeneral(client ai.Client, logger *slog.Logger) Responder {
	return newPromptResponder(
		"general",
		"a supportive menopause health assistant providing clear educational information",
		`- Answer the user's question about menopause accurately and simply
- Explain symptoms, causes, and stages in plain language
- Personalize the answer with the user profile when available`,
		"I apologize, but I'm having trouble answering your question right now. Please try rephrasing it or ask another menopause question.",
		client, logger)
}

// NewConsultation answers medical-advice and symptom questions.
func NewConsultation(client ai.Client, logger *slog.Logger) Responder {
	return newPromptResponder(
		"consultation",
		"a caring menopause health consultant helping users understand their symptoms",
		`- Address the user's health concern using the User Profile and User Symptoms
- Suggest when it is appropriate to see a doctor
- Never present yourself as a replacement for professional medical care`,
		"I apologize, but I'm having trouble processing your health question. Please try rephrasing your question or consult a healthcare professional for urgent concerns.",
		client, logger)
}

// NewDiet answers nutrition and dietary questions.
func NewDiet(client ai.Client, logger *slog.Logger) Responder {
	return newPromptResponder(
		"diet",
		"a personalized nutrition consultant and diet recommender for menopause wellness",
		`- Answer the user's specific question according to the User Profile and User Symptoms to give personalized dietary advice
- Focus on menopause and perimenopause-friendly foods and dietary strategies
- Give answer in structured bullet points and lists`,
		"I apologize, but I'm having trouble processing your nutrition question. Please try rephrasing your question or ask about specific dietary concerns.",
		client, logger)
}

// NewExercise answers physical-activity questions.
func NewExercise(client ai.Client, logger *slog.Logger) Responder {
	return newPromptResponder(
		"exercise",
		"a fitness coach specializing in safe, effective exercise for menopause wellness",
		`- Recommend physical activity suited to the User Profile and User Symptoms
- Favor low-impact options when symptoms suggest joint or fatigue issues
- Give answer as a short structured plan`,
		"I apologize, but I'm having trouble processing your exercise question. Please try rephrasing your question or ask about specific activities.",
		client, logger)
}

// All wires one responder per category.
func All(client ai.Client, logger *slog.Logger) map[classify.Category]Responder {
	return map[classify.Category]Responder{
		classify.General:      NewGeneral(client, logger),
		classify.Consultation: NewConsultation(client, logger),
		classify.Diet:         NewDiet(client, logger),
		classify.Exercise:     NewExercise(client, logger),
	}
}
