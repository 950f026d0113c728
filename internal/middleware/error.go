package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// responseRecorder holds back plain-text error responses so they can be
// rewritten as JSON. JSON responses pass straight through.
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	held        bool
	body        strings.Builder
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader || r.held {
		return
	}
	r.statusCode = statusCode
	if statusCode >= 400 && !strings.HasPrefix(r.Header().Get("Content-Type"), "application/json") {
		r.held = true
		return
	}
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader && !r.held {
		r.WriteHeader(http.StatusOK)
	}
	if r.held {
		return r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) writeJSON(status int, msg string) {
	r.Header().Del("Content-Length")
	r.Header().Set("Content-Type", "application/json")
	r.ResponseWriter.WriteHeader(status)
	r.wroteHeader = true
	_ = json.NewEncoder(r.ResponseWriter).Encode(ErrorResponse{Error: msg})
}

// ErrorHandler recovers panics into a JSON 500 and turns plain-text error
// responses (router 404s, http.Error) into JSON error bodies.
func ErrorHandler(log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"panic":  err,
					"method": r.Method,
					"path":   r.URL.Path,
				}).Error("recovered from panic")
				if !rec.wroteHeader {
					rec.writeJSON(http.StatusInternalServerError, "Internal Server Error")
				}
				return
			}
			if rec.held {
				rec.writeJSON(rec.statusCode, strings.TrimSpace(rec.body.String()))
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
