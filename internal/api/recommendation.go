package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/ragcipe/backend/internal/logging"
	"github.com/pageza/ragcipe/backend/internal/service"
	"github.com/pageza/ragcipe/backend/internal/types"
)

// RecommendationHandler serves the recommendation pipeline over HTTP
type RecommendationHandler struct {
	service service.RecommendationServiceInterface
}

// NewRecommendationHandler creates a new RecommendationHandler instance
func NewRecommendationHandler(svc service.RecommendationServiceInterface) *RecommendationHandler {
	return &RecommendationHandler{service: svc}
}

// RegisterRoutes registers the recommendation routes
func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recommendations", h.Recommend)

	choices := router.Group("/choices")
	{
		choices.POST("", h.ListChoices)
		choices.POST("/:session_id/select", h.SelectChoice)
	}
}

// Recommend answers a query with its best matching recipe in one step
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req types.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	rec, err := h.service.AnswerQuery(c.Request.Context(), service.QueryRequest{
		Query:       req.Query,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// ListChoices ranks recipes for a query and stores them for a later selection
func (h *RecommendationHandler) ListChoices(c *gin.Context) {
	var req types.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	session, err := h.service.GetRecipeChoices(c.Request.Context(), service.QueryRequest{
		Query:       req.Query,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := types.ChoicesResponse{
		SessionID: session.ID,
		Query:     session.Query,
		Choices:   make([]types.ChoiceSummary, 0, len(session.Choices)),
	}
	for i, choice := range session.Choices {
		resp.Choices = append(resp.Choices, types.ChoiceSummary{
			Index: i,
			ID:    choice.ID,
			Name:  choice.Name,
			URL:   choice.URL,
			Score: choice.Score,
			Boost: choice.Boost,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// SelectChoice answers the stored query with the recipe picked by index
func (h *RecommendationHandler) SelectChoice(c *gin.Context) {
	var req types.SelectChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	rec, err := h.service.ProcessSelectedRecipe(c.Request.Context(), c.Param("session_id"), *req.Index)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// writeServiceError maps pipeline errors onto HTTP responses
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoRecipesFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   err.Error(),
			Message: "Try broadening the query or removing an ingredient or nutrition constraint.",
		})
	case errors.Is(err, service.ErrInvalidQuery), errors.Is(err, service.ErrInvalidChoice):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   err.Error(),
			Message: "The choice session has expired, request new choices.",
		})
	default:
		if dep, ok := service.FailedDependency(err); ok {
			c.JSON(http.StatusBadGateway, types.ErrorResponse{
				Error:      "upstream dependency failed",
				Message:    "The " + dep + " service is unavailable, please retry later.",
				Dependency: dep,
			})
			return
		}
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("unexpected recommendation error")
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "internal server error"})
	}
}
