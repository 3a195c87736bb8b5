package api

import (
	"fmt"
	"net/http"

	"github.com/teris-io/shortid"
)

func (s *SociofyApp) errorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				var panicError error
				switch e := err.(type) {
				case error:
					panicError = e
				default:
					panicError = fmt.Errorf("%v", e)
				}
				s.log.Printf("panic: %v", panicError)
				errResp := NewInternalServerError("internal server error", panicError)
				w.Header().Set("Connection", "close")
				s.writeJson(w, errResp.StatusCode, errResp)
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requestId tags every request with a short id for log correlation and
// echoes it back in the X-Request-Id header.
func (s *SociofyApp) requestId(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid, err := shortid.Generate()
		if err != nil {
			s.log.Printf("generate request id: %v", err)
		} else {
			w.Header().Set("X-Request-Id", rid)
			s.log.Printf("%s %s %s", rid, r.Method, r.URL.Path)
		}

		next.ServeHTTP(w, r)
	})
}
