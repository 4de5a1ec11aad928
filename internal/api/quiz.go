package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/security"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/survey"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/types"
)

// GetQuestions godoc
// @Summary      Question bank
// @Description  Axes and questions the quiz client renders
// @Tags         quiz
// @Produce      json
// @Success      200  {object}  types.QuestionsResponse
// @Router       /api/v1/questions [get]
func (h *Handlers) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewQuestionsResponse(h.Survey.Bank()))
}

// ScoreQuiz godoc
// @Summary      Score answers without storing them
// @Tags         quiz
// @Accept       json
// @Produce      json
// @Param        request  body      types.ScoreRequest  true  "Answers"
// @Success      200      {object}  types.ScoreResponse
// @Failure      400      {object}  types.ErrorResponse
// @Router       /api/v1/quiz/score [post]
func (h *Handlers) ScoreQuiz(c *gin.Context) {
	var req types.ScoreRequest
	if err := bindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	eval := h.Survey.Evaluate(types.ToAnswers(req.Answers))
	c.JSON(http.StatusOK, types.NewScoreResponse(eval))
}

// SubmitQuiz godoc
// @Summary      Submit a completed quiz
// @Description  Scores the answers and stores the run as a lead record
// @Tags         quiz
// @Accept       json
// @Produce      json
// @Param        request  body      types.SubmissionRequest  true  "Quiz run"
// @Success      201      {object}  survey.Result
// @Failure      400      {object}  types.ErrorResponse
// @Failure      429      {object}  types.ErrorResponse
// @Router       /api/v1/quiz/submissions [post]
func (h *Handlers) SubmitQuiz(c *gin.Context) {
	var req types.SubmissionRequest
	if err := bindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	source := security.SanitizeInput(req.Source)
	if err := security.ValidateSource(source); err != nil {
		apperrors.Respond(c, err)
		return
	}

	result, err := h.Survey.Submit(c.Request.Context(), survey.Submission{
		Answers:   types.ToAnswers(req.Answers),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Source:    source,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.Header("Location", "/api/v1/results/"+result.ID)
	c.JSON(http.StatusCreated, result)
}

// GetResult godoc
// @Summary      Stored quiz result
// @Tags         quiz
// @Produce      json
// @Param        id   path      string  true  "Result id"
// @Success      200  {object}  survey.Result
// @Failure      404  {object}  types.ErrorResponse
// @Router       /api/v1/results/{id} [get]
func (h *Handlers) GetResult(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apperrors.Respond(c, apperrors.NewNotFoundError("response", id))
		return
	}

	result, err := h.Survey.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPrivacyPolicy godoc
// @Summary      Data retention policy
// @Tags         privacy
// @Produce      json
// @Success      200  {object}  privacy.Policy
// @Router       /api/v1/privacy/policy [get]
func (h *Handlers) GetPrivacyPolicy(c *gin.Context) {
	c.JSON(http.StatusOK, h.Privacy.RetentionPolicy())
}
