package middleware

import (
	"net/http"

	"github.com/go-chi/render"

	"derisk/pkg/log"
)

type internalErrorResponse struct {
	Messages    []string `json:"messages"`
	MessageType string   `json:"message_type"`
}

func Recoverer(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Error(rvr)
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, &internalErrorResponse{
					Messages:    []string{http.StatusText(http.StatusInternalServerError)},
					MessageType: "error",
				})
			}
		}()

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
