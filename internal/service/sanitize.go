package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"yatube/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxPostLen    = 10000
	maxCommentLen = 2000
)

var textPolicy = bluemonday.UGCPolicy()

// cleanText strips unsafe markup from user text and enforces a non-empty,
// bounded result.
func cleanText(raw string, maxLen int) (string, error) {
	text := strings.TrimSpace(textPolicy.Sanitize(raw))
	if text == "" {
		return "", models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) > maxLen {
		return "", models.NewValidationError(fmt.Sprintf("Text too long (max %d characters)", maxLen))
	}
	return text, nil
}
