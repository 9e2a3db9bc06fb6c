package handler

import (
	"net/http"
	"strconv"
	"time"

	"homematch/internal/model"
	"homematch/internal/service"

	"github.com/gin-gonic/gin"
)

// RecommendHandler exposes the ranker directly, outside the chat flow.
// Useful for the app's browse view and for diagnosing ranking behavior.
// Deliberately session-free: the chat session's rejected set is not
// applied, so results always reflect the full candidate pool.
type RecommendHandler struct {
	recommender *service.Recommender
}

// NewRecommendHandler creates a new recommendation handler
func NewRecommendHandler(recommender *service.Recommender) *RecommendHandler {
	return &RecommendHandler{recommender: recommender}
}

// Recommend handles POST /api/v1/recommendations
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req model.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if !req.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority; expected distance, price or room_type"})
		return
	}

	startTime := time.Now()
	results, err := h.recommender.Recommend(c.Request.Context(), req.UserID, req.Priority, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recommendation failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.RecommendResponse{
		Results: results,
		Count:   len(results),
		Took:    time.Since(startTime).Milliseconds(),
	})
}

// GetProperty handles GET /api/v1/properties/:id
func (h *RecommendHandler) GetProperty(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.recommender.GetProperty(c.Request.Context(), propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property: " + err.Error()})
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}
