package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/profolio/internal/application"
	"github.com/oksasatya/profolio/internal/domain/rules"
	"github.com/oksasatya/profolio/pkg/response"
)

// MovieHandler serves movies and their embedded reviews.
type MovieHandler struct {
	Movies  *application.MovieService
	Reviews *application.ReviewService
}

func NewMovieHandler(movies *application.MovieService, reviews *application.ReviewService) *MovieHandler {
	return &MovieHandler{Movies: movies, Reviews: reviews}
}

func (h *MovieHandler) List(c *gin.Context) {
	out, err := h.Movies.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "movies", nil)
}

func (h *MovieHandler) Get(c *gin.Context) {
	m, err := h.Movies.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "movie", nil)
}

func (h *MovieHandler) Create(c *gin.Context) {
	var req rules.MovieInput
	if !bind(c, &req) {
		return
	}
	m, err := h.Movies.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "movie created", nil)
}

func (h *MovieHandler) Update(c *gin.Context) {
	var req rules.MovieInput
	if !bind(c, &req) {
		return
	}
	m, err := h.Movies.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "movie updated", nil)
}

func (h *MovieHandler) Delete(c *gin.Context) {
	m, err := h.Movies.Remove(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"deleted": true, "id": m.ID.Hex(), "title": m.Title}, "movie deleted", nil)
}

func (h *MovieHandler) ListReviews(c *gin.Context) {
	out, err := h.Reviews.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out, "reviews", nil)
}

// CreateReview returns the movie with the new review and recomputed rating.
func (h *MovieHandler) CreateReview(c *gin.Context) {
	var req rules.ReviewInput
	if !bind(c, &req) {
		return
	}
	m, err := h.Reviews.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, m, "review added", nil)
}

func (h *MovieHandler) GetReview(c *gin.Context) {
	r, err := h.Reviews.GetByID(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, r, "review", nil)
}

func (h *MovieHandler) DeleteReview(c *gin.Context) {
	m, err := h.Reviews.Remove(c.Request.Context(), c.Param("reviewId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, m, "review removed", nil)
}
