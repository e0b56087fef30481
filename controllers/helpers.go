package controllers

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/middleware"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the request body into dst. An empty body leaves dst at its
// zero value so the service reports the missing fields.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		apperrors.Respond(c, apperrors.BadRequest("Invalid request body"))
		return false
	}
	return true
}

// currentUser returns the authenticated caller or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		apperrors.Respond(c, apperrors.Unauthorized("Access token required"))
		return "", false
	}
	return userID, true
}

// parsePriceParam reads an optional decimal query parameter.
func parsePriceParam(c *gin.Context, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("invalid price")
	}
	return &v, nil
}
