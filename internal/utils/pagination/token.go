package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/fieldops_backend/internal/apperrors"
	"github.com/SscSPs/fieldops_backend/internal/core/domain"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeCursor creates an opaque page token from the creation time and id of
// the last item on a page.
func EncodeCursor(createdAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.UTC().Format(timeFormat), id)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (time.Time, string, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid pagination token format (base64 decode): %v", apperrors.ErrValidation, err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("%w: invalid pagination token format (split)", apperrors.ErrValidation)
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid pagination token format (created_at parse): %v", apperrors.ErrValidation, err)
	}
	return createdAt, parts[1], nil
}

// ListParams builds normalized list parameters from a page size and an
// optional token.
func ListParams(limit int, nextToken string) (domain.ListParams, error) {
	params := domain.ListParams{Limit: limit}.Normalize()
	if nextToken == "" {
		return params, nil
	}
	createdAt, id, err := DecodeCursor(nextToken)
	if err != nil {
		return domain.ListParams{}, err
	}
	params.AfterCreatedAt = &createdAt
	params.AfterID = id
	return params, nil
}

// NextToken returns the token for the page after items, or "" when items
// did not fill the page.
func NextToken[T any](items []T, limit int, key func(T) (time.Time, string)) string {
	if limit <= 0 || len(items) < limit {
		return ""
	}
	createdAt, id := key(items[len(items)-1])
	return EncodeCursor(createdAt, id)
}
