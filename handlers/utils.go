package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nishant-deshmukh/book-review-api/middleware"
)

const tokenLifetime = 15 * 24 * time.Hour

// pagination reads page and limit from the query string. Page defaults to 1,
// limit defaults to 5 and is clamped at maxLimit.
func pagination(c *gin.Context, maxLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// serverError logs the failure with its request id and returns a generic
// message to the caller.
func serverError(c *gin.Context, op string, err error) {
	log.Printf("[%s] %s: %v", middleware.GetRequestID(c), op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
}

// generateToken signs a JWT carrying the user id as the subject.
func generateToken(secret string, userID int64) (string, error) {
	claims := &middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// optionalText is a JSON text field that records whether it appeared in the
// request body, so "absent" and "sent as empty/null" stay distinguishable.
type optionalText struct {
	Provided bool
	Value    *string
}

func (o *optionalText) UnmarshalJSON(data []byte) error {
	o.Provided = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
