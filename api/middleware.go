package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/keyauth"

	"github.com/papercomputeco/llmock/pkg/catalog"
	"github.com/papercomputeco/llmock/pkg/llm"
)

var errInvalidAPIKey = errors.New("invalid API key")

// logRequests logs every request once its error, if any, has been rendered,
// so the logged status is the one the client sees.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()
	if err != nil {
		if herr := s.handleError(c, err); herr != nil {
			return herr
		}
	}

	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return nil
}

// handleError renders any error as an OpenAI error payload.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var (
		invalid  *llm.InvalidRequestError
		notFound *catalog.ModelNotFoundError
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(invalid.Response())

	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(notFound.Response())

	case errors.Is(err, keyauth.ErrMissingOrMalformedAPIKey):
		return c.Status(fiber.StatusUnauthorized).JSON(llm.NewErrorResponse(llm.ErrorTypeAuth, "Missing API key"))

	case errors.Is(err, errInvalidAPIKey):
		return c.Status(fiber.StatusUnauthorized).JSON(llm.NewErrorResponse(llm.ErrorTypeAuth, "Invalid API key"))

	case errors.As(err, &fiberErr):
		typ := llm.ErrorTypeInvalidRequest
		if fiberErr.Code >= fiber.StatusInternalServerError {
			typ = llm.ErrorTypeServer
		}
		return c.Status(fiberErr.Code).JSON(llm.NewErrorResponse(typ, fiberErr.Message))

	default:
		s.logger.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.NewErrorResponse(llm.ErrorTypeServer, "internal server error"))
	}
}

// auth requires the configured bearer key on every route but /health and
// CORS preflights. The key is read per request so reloads take effect
// immediately.
func (s *Server) auth() fiber.Handler {
	return keyauth.New(keyauth.Config{
		Next: func(c *fiber.Ctx) bool {
			return s.current().APIKey == "" ||
				c.Method() == fiber.MethodOptions ||
				c.Path() == "/health"
		},
		Validator: func(_ *fiber.Ctx, key string) (bool, error) {
			want := s.current().APIKey
			if subtle.ConstantTimeCompare([]byte(key), []byte(want)) == 1 {
				return true, nil
			}
			return false, errInvalidAPIKey
		},
		ErrorHandler: func(_ *fiber.Ctx, err error) error {
			return err
		},
	})
}

// newCORS returns the CORS middleware for origins, or nil when there are
// none. Empty entries are ignored. Credentials are allowed unless "*" is
// configured.
func newCORS(origins []string) (fiber.Handler, error) {
	allowed := make([]string, 0, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
			continue
		case o == "*":
			wildcard = true
		default:
			u, err := url.Parse(o)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return nil, fmt.Errorf("invalid CORS origin %q", o)
			}
		}
		allowed = append(allowed, o)
	}
	if len(allowed) == 0 {
		return nil, nil
	}

	if wildcard {
		return cors.New(cors.Config{AllowOrigins: "*"}), nil
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowed, ","),
		AllowCredentials: true,
	}), nil
}
