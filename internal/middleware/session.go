package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dunglas/httpsfv"
)

// SessionHeader names the shopper's cart. It is an RFC 8941 dictionary:
//
//	Storefront-Session: cart="abc123"
const SessionHeader = "Storefront-Session"

// maxSessionLength bounds the cart id accepted from clients.
const maxSessionLength = 64

type sessionKey struct{}

// ParseSessionHeader extracts the cart id from a Storefront-Session header.
//
// Examples:
//   - cart="abc123"          → abc123
//   - cart="abc123";v=1      → abc123 (params ignored)
//   - cart=abc123            → abc123 (tokens accepted)
//
// Returns error if the header is malformed, has no cart key, or the id
// contains anything but letters, digits, '-' and '_'.
func ParseSessionHeader(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("empty Storefront-Session header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return "", fmt.Errorf("invalid Storefront-Session header: %w", err)
	}

	member, ok := dict.Get("cart")
	if !ok {
		return "", errors.New("cart key not found in Storefront-Session header")
	}

	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", errors.New("cart value must be an item")
	}

	var id string
	switch v := item.Value.(type) {
	case string:
		id = v
	case httpsfv.Token:
		id = string(v)
	default:
		return "", errors.New("cart value must be a string")
	}

	if err := ValidateSessionID(id); err != nil {
		return "", err
	}
	return id, nil
}

// ValidateSessionID checks a cart id taken from any transport.
func ValidateSessionID(id string) error {
	if id == "" || len(id) > maxSessionLength {
		return fmt.Errorf("cart id must be 1-%d characters", maxSessionLength)
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("cart id contains invalid character %q", r)
		}
	}
	return nil
}

// Session parses the Storefront-Session header into the request context.
// Requests without the header use the default cart; malformed headers are
// rejected with 400 Bad Request.
func Session(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(SessionHeader)
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := ParseSessionHeader(header)
			if err != nil {
				logger.Warn("invalid Storefront-Session header",
					slog.String("error", err.Error()))
				writeError(w, http.StatusBadRequest, "INVALID_SESSION", err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
		})
	}
}

// WithSession stores a cart id in ctx.
func WithSession(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext returns the cart id of the request, or "" for the
// default cart.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// writeError writes the API error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	resp.Error.Code = code
	resp.Error.Message = message

	json.NewEncoder(w).Encode(resp)
}
