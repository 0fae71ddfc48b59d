package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nishant-deshmukh/book-review-api/store"
)

type BookHandler struct {
	Books        BookStore
	Reviews      ReviewStore
	MaxPageLimit int
}

func NewBookHandler(books BookStore, reviews ReviewStore, maxPageLimit int) *BookHandler {
	return &BookHandler{Books: books, Reviews: reviews, MaxPageLimit: maxPageLimit}
}

// POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	var req struct {
		Title       string  `json:"title"`
		Author      string  `json:"author"`
		Genre       *string `json:"genre"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	if req.Title == "" || req.Author == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Title and Author are required"})
		return
	}

	book, err := h.Books.Create(c.Request.Context(), req.Title, req.Author, req.Genre, req.Description)
	if err != nil {
		serverError(c, "create book", err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// GET /api/books/search?q=term
func (h *BookHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Search query (q) is required"})
		return
	}

	books, err := h.Books.Search(c.Request.Context(), term)
	if err != nil {
		serverError(c, "search books", err)
		return
	}

	c.JSON(http.StatusOK, books)
}

// GET /api/books?page=&limit=&author=&genre=
func (h *BookHandler) List(c *gin.Context) {
	page, limit := pagination(c, h.MaxPageLimit)
	filters := store.BookFilters{
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
	}

	result, err := h.Books.List(c.Request.Context(), page, limit, filters)
	if err != nil {
		serverError(c, "list books", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalBooks":  result.Total,
		"currentPage": result.Page,
		"totalPages":  result.TotalPages,
		"books":       result.Books,
	})
}

// GET /api/books/books-with-reviews
func (h *BookHandler) ListWithReviews(c *gin.Context) {
	page, limit := pagination(c, h.MaxPageLimit)
	filters := store.BookFilters{
		Author: c.Query("author"),
		Genre:  c.Query("genre"),
	}

	result, err := h.Books.ListWithReviews(c.Request.Context(), page, limit, filters)
	if err != nil {
		serverError(c, "list books with reviews", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalBooks":  result.Total,
		"currentPage": result.Page,
		"totalPages":  result.TotalPages,
		"books":       result.Books,
	})
}

// GET /api/books/:id?page=&limit=
// Returns the book, its average rating and a paginated review listing.
func (h *BookHandler) GetDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid book ID"})
		return
	}

	page, limit := pagination(c, h.MaxPageLimit)

	book, err := h.Books.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Book not found"})
		return
	}
	if err != nil {
		serverError(c, "get book", err)
		return
	}

	avg, err := h.Reviews.AverageRating(c.Request.Context(), id)
	if err != nil {
		serverError(c, "average rating", err)
		return
	}

	reviews, err := h.Reviews.ListForBook(c.Request.Context(), id, page, limit)
	if err != nil {
		serverError(c, "list reviews", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"book":          book,
		"averageRating": avg,
		"reviews": gin.H{
			"totalReviews": reviews.Total,
			"totalPages":   reviews.TotalPages,
			"currentPage":  reviews.Page,
			"data":         reviews.Reviews,
		},
	})
}

// PUT /api/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid book ID"})
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Author      *string `json:"author"`
		Genre       *string `json:"genre"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid request body"})
		return
	}

	if (req.Title != nil && *req.Title == "") || (req.Author != nil && *req.Author == "") {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Title and Author cannot be empty"})
		return
	}

	book, err := h.Books.Update(c.Request.Context(), id, store.BookUpdate{
		Title:       req.Title,
		Author:      req.Author,
		Genre:       req.Genre,
		Description: req.Description,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Book not found"})
		return
	}
	if err != nil {
		serverError(c, "update book", err)
		return
	}

	c.JSON(http.StatusOK, book)
}

// DELETE /api/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid book ID"})
		return
	}

	err = h.Books.Delete(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Book not found"})
		return
	}
	if err != nil {
		serverError(c, "delete book", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Book deleted successfully"})
}
