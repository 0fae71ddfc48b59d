package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nishant-deshmukh/book-review-api/middleware"
	"github.com/nishant-deshmukh/book-review-api/store"
)

type ReviewHandler struct {
	Books   BookStore
	Reviews ReviewStore
}

func NewReviewHandler(books BookStore, reviews ReviewStore) *ReviewHandler {
	return &ReviewHandler{Books: books, Reviews: reviews}
}

// POST /api/reviews/:bookId
func (h *ReviewHandler) Create(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid book ID"})
		return
	}

	userID := middleware.UserID(c)

	var req struct {
		Rating  *int    `json:"rating"`
		Comment *string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	if req.Rating == nil || *req.Rating < 1 || *req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Rating must be between 1 and 5"})
		return
	}

	if _, err := h.Books.GetByID(c.Request.Context(), bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Book not found"})
			return
		}
		serverError(c, "get book", err)
		return
	}

	review, err := h.Reviews.Create(c.Request.Context(), bookID, userID, *req.Rating, req.Comment)
	if errors.Is(err, store.ErrDuplicateReview) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "You have already reviewed this book"})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Book not found"})
		return
	}
	if err != nil {
		serverError(c, "create review", err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// PUT /api/reviews/:id
// Only the review's owner may update it. A comment sent as empty or null
// clears it; an absent comment is left unchanged.
func (h *ReviewHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid review ID"})
		return
	}

	userID := middleware.UserID(c)

	review, err := h.Reviews.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Review not found"})
		return
	}
	if err != nil {
		serverError(c, "get review", err)
		return
	}

	if review.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized"})
		return
	}

	var req struct {
		Rating  *int         `json:"rating"`
		Comment optionalText `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Rating must be between 1 and 5"})
		return
	}

	updated, err := h.Reviews.Update(c.Request.Context(), id, store.ReviewUpdate{
		Rating:          req.Rating,
		Comment:         req.Comment.Value,
		CommentProvided: req.Comment.Provided,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Review not found"})
		return
	}
	if err != nil {
		serverError(c, "update review", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid review ID"})
		return
	}

	userID := middleware.UserID(c)

	review, err := h.Reviews.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Review not found"})
		return
	}
	if err != nil {
		serverError(c, "get review", err)
		return
	}

	if review.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Not authorized"})
		return
	}

	if err := h.Reviews.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Review not found"})
			return
		}
		serverError(c, "delete review", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Review deleted"})
}
