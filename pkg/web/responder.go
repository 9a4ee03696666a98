package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"derisk/pkg/log"
	"derisk/pkg/response"
)

const (
	messageTypeError = "error"
)

type errorResponse struct {
	Messages    []string `json:"messages"`
	MessageType string   `json:"message_type"`
}

// RenderError renders the error as a message list in JSON format, the shape
// the dashboard consumes verbatim.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	log.AddFields(r.Context(), "error", err.Error()) // log the rendered error

	status := http.StatusBadRequest
	messages := []string{err.Error()}

	cause := errors.Cause(err)
	respErr, ok := cause.(*response.Error)
	if ok {
		if respErr.Code != 0 {
			status = respErr.Code
		}
		messages = []string{fmt.Sprint(respErr.Message)}
		if respErr.Internal != nil { // log the internal error
			log.AddFields(r.Context(), "internal", respErr.Internal.Error())
		}
	}

	render.Status(r, status)
	render.JSON(w, r, &errorResponse{Messages: messages, MessageType: messageTypeError})
}

// RenderResult renders the payload as-is.
func RenderResult(w http.ResponseWriter, r *http.Request, result interface{}) {
	render.JSON(w, r, result)
}
