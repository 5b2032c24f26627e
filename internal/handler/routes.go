package handler

import (
	"quizflare/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Proxy   *ProxyHandler
	Quiz    *QuizHandler
	Draft   *DraftHandler
	Session *SessionHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts the API on app. The AI proxy endpoints accept any
// method so that they can answer non-POST requests with 405 themselves.
func RegisterRoutes(app *fiber.App, h Handlers) {
	vm := middleware.NewValidationMiddleware()

	if h.Health != nil {
		app.Get("/healthz", h.Health.Health)
	}

	api := app.Group("/api")

	api.All("/evaluate-answer", h.Proxy.EvaluateAnswer)
	api.All("/generate-quiz", h.Proxy.GenerateQuiz)

	api.Get("/quizzes", h.Quiz.ListQuizzes)
	api.Post("/quizzes", h.Quiz.CreateQuiz)
	api.Get("/quizzes/:id", vm.ValidateQuizID(), h.Quiz.GetQuiz)
	api.Put("/quizzes/:id", vm.ValidateQuizID(), h.Quiz.UpdateQuiz)
	api.Delete("/quizzes/:id", vm.ValidateQuizID(), h.Quiz.DeleteQuiz)
	api.Get("/quizzes/:id/draft", vm.ValidateQuizID(), h.Quiz.LoadDraft)
	api.Post("/quizzes/:id/sessions", vm.ValidateQuizID(), h.Session.CreateSession)
	api.Get("/subjects", h.Quiz.ListSubjects)
	api.Get("/identity", h.Quiz.Identity)
	api.Get("/leaderboard", h.Quiz.Leaderboard)

	api.Post("/drafts/operations", h.Draft.ApplyOperation)
	api.Post("/drafts/questions/generate", h.Draft.GenerateQuestions)

	sid := vm.ValidateSessionID()
	api.Get("/sessions/:id", sid, h.Session.GetSession)
	api.Delete("/sessions/:id", sid, h.Session.Cancel)
	api.Post("/sessions/:id/start", sid, h.Session.StartSession)
	api.Post("/sessions/:id/answers", sid, h.Session.Answer)
	api.Post("/sessions/:id/submit", sid, h.Session.Submit)
	api.Get("/sessions/:id/result", sid, h.Session.Result)
}
