package sandbox

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/golang-jwt/jwt/v5/request"

	"github.com/samandr77/healthportal/pkg/logger"
)

type ctxKeyClaims struct{}

func claimsFromCtx(ctx context.Context) Claims {
	c, _ := ctx.Value(ctxKeyClaims{}).(Claims)
	return c
}

func (s *Server) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx := logger.SetRequestID(r.Context(), requestID)

		slog.DebugContext(ctx, "incoming request", "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic recovered", "panic", rec, "stack", string(debug.Stack()))
				SendErr(r.Context(), w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// Faults counts hits per route and serves injected failures registered with FailOn.
func (s *Server) Faults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.hits[key]++
		f, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if ok {
			SendErr(r.Context(), w, f.status, f.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendErr(ctx, w, http.StatusUnauthorized, "Authentication required")
			return
		}

		var claims Claims

		_, err = jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
			return s.opts.Secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Session expired"
			}

			SendErr(ctx, w, http.StatusUnauthorized, msg)

			return
		}

		s.mu.Lock()
		revoked := s.revoked[claims.ID]
		_, exists := s.users[claims.Subject]
		s.mu.Unlock()

		if revoked || !exists {
			SendErr(ctx, w, http.StatusUnauthorized, "Session expired")
			return
		}

		ctx = logger.SetUserID(ctx, claims.Subject)
		ctx = context.WithValue(ctx, ctxKeyClaims{}, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(s.Log, s.Recover, s.Faults)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/verify-otp", s.verifyOTP)
		r.Post("/forgot-password", s.forgotPassword)
		r.Get("/verify-reset-token", s.verifyResetToken)
		r.Post("/reset-password", s.resetPassword)
		r.Post("/register", s.register)

		r.Group(func(r chi.Router) {
			r.Use(s.Auth)
			r.Get("/me", s.me)
			r.Post("/switch-role", s.switchRole)
			r.Post("/logout", s.logout)
		})
	})

	router.Route("/document", func(r chi.Router) {
		r.Use(s.Auth)
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)
		r.Get("/doctor/documents", s.doctorDocuments)
		r.Get("/{id}", s.getDocument)
		r.Put("/{id}", s.updateDocument)
		r.Delete("/{id}", s.deleteDocument)
		r.Put("/{id}/status", s.updateStatus)
		r.Get("/{id}/download", s.downloadInfo)
		r.Get("/{id}/preview", s.preview)
	})

	router.Get("/files/{id}/{name}", s.serveFile)

	return router
}
