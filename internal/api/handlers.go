package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hammamikhairi/nutriplan/internal/dietplan"
	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/planner"
)

// slotTarget is a MealTarget labelled with its slot.
type slotTarget struct {
	Slot domain.MealSlot `json:"slot"`
	domain.MealTarget
}

type planResponse struct {
	Plan     domain.NutritionPlan `json:"plan"`
	DietPlan domain.DietPlan      `json:"dietPlan"`
	Targets  []slotTarget         `json:"targets"`
}

func newPlanResponse(plan domain.NutritionPlan, diet domain.DietPlan) planResponse {
	resp := planResponse{Plan: plan, DietPlan: diet}
	for i, t := range dietplan.Targets(plan) {
		resp.Targets = append(resp.Targets, slotTarget{Slot: dietplan.Distribution[i].Slot, MealTarget: t})
	}
	return resp
}

// POST /api/plan
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var u domain.UserData
	if err := decodeJSON(w, r, maxJSONBody, &u); err != nil {
		s.writeError(w, err)
		return
	}
	solver, err := planner.NewSolver(r.Context(), r.URL.Query().Get("solver"), s.planner.Catalog())
	if err != nil {
		s.writeError(w, err)
		return
	}
	plan, diet, err := s.planner.ComputeWith(u, solver)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(plan, diet))
}

type replaceRequest struct {
	DietPlan domain.DietPlan `json:"dietPlan"`
	Slot     domain.MealSlot `json:"slot"`
	Index    int             `json:"index"`
	Food     domain.FoodItem `json:"food"`
}

// POST /api/diet-plan/replace
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Food.Name) == "" {
		s.writeError(w, fmt.Errorf("%w: food name is required", domain.ErrInvalidInput))
		return
	}
	out, err := dietplan.ReplaceFood(req.DietPlan, req.Slot, req.Index, req.Food)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/foods?category=&q=
func (s *Server) handleFoods(w http.ResponseWriter, r *http.Request) {
	catalog := s.planner.Catalog()
	q := r.URL.Query()

	var (
		out []domain.CatalogFood
		err error
	)
	switch {
	case q.Get("category") != "":
		out, err = catalog.ByCategory(r.Context(), domain.FoodCategory(strings.ToLower(q.Get("category"))))
	case q.Get("q") != "":
		out, err = catalog.Search(r.Context(), q.Get("q"))
	default:
		out, err = catalog.List(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if out == nil {
		out = []domain.CatalogFood{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/foods/alternatives/{slot}
func (s *Server) handleAlternatives(w http.ResponseWriter, r *http.Request) {
	slot := domain.MealSlot(mux.Vars(r)["slot"])
	out, err := s.planner.Alternatives(r.Context(), slot)
	if err != nil {
		s.writeError(w, fmt.Errorf("alternatives for %q: %w", slot, err))
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type analyzeRequest struct {
	Image string `json:"image"`
}

// POST /api/analyze-food
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.analyzer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:      "Vision analysis is not configured",
			Suggestion: "Set OPENAI_API_KEY and restart the server.",
			Code:       "not_configured",
		})
		return
	}
	var req analyzeRequest
	if err := decodeJSON(w, r, maxAnalyzeBody, &req); err != nil {
		s.writeError(w, err)
		return
	}
	analysis, err := s.analyzer.Analyze(r.Context(), req.Image)
	if err != nil {
		s.writeVisionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// ── Sessions ─────────────────────────────────────────────────────

type sessionResponse struct {
	*domain.Session
	NextQuestion string `json:"nextQuestion,omitempty"`
}

func newSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{Session: s}
	if step, ok := planner.NextQuestion(s); ok {
		resp.NextQuestion = step.String()
	}
	return resp
}

// POST /api/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.planner.StartSession(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

// GET /api/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.planner.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// DELETE /api/sessions/{id}
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.End(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type answerRequest struct {
	Answer string `json:"answer"`
}

// PUT /api/sessions/{id}/quiz/{step}
func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	step, ok := domain.QuizStepFromString(vars["step"])
	if !ok {
		s.writeError(w, fmt.Errorf("%w: unknown quiz step %q", domain.ErrInvalidInput, vars["step"]))
		return
	}
	var req answerRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, err)
		return
	}
	sess, err := s.planner.AnswerQuiz(r.Context(), vars["id"], step, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// POST /api/sessions/{id}/paid
func (s *Server) handlePaid(w http.ResponseWriter, r *http.Request) {
	sess, err := s.planner.MarkPaid(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// GET /api/sessions/{id}/plan
func (s *Server) handleSessionPlan(w http.ResponseWriter, r *http.Request) {
	plan, diet, err := s.planner.Plan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(*plan, *diet))
}

type swapRequest struct {
	Slot  domain.MealSlot  `json:"slot"`
	Index int              `json:"index"`
	Food  *domain.FoodItem `json:"food,omitempty"`
	// Name picks the replacement from the catalog when Food is absent.
	Name string `json:"name,omitempty"`
}

// POST /api/sessions/{id}/swap
func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req swapRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		diet *domain.DietPlan
		err  error
	)
	switch {
	case req.Food != nil:
		diet, err = s.planner.SwapFood(r.Context(), id, req.Slot, req.Index, *req.Food)
	case req.Name != "":
		diet, err = s.planner.SwapFoodByName(r.Context(), id, req.Slot, req.Index, req.Name)
	default:
		err = fmt.Errorf("%w: food or name is required", domain.ErrInvalidInput)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, diet)
}

// POST /api/sessions/{id}/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := s.planner.Reset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}
