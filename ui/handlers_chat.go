package ui

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"gosheet/internal/errors"
	"gosheet/ui/middleware"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) assistantEnabled(c *gin.Context) bool {
	if s.assistant == nil || !s.assistant.Enabled() {
		respondError(c, errors.Unavailable("assistant is not configured"))
		return false
	}
	return true
}

// handleChat streams the reply as SSE: one "delta" event per fragment, then a
// single "done", "error" or "cancelled" event
func (s *Server) handleChat(c *gin.Context) {
	if !s.assistantEnabled(c) {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidInput("invalid JSON body"))
		return
	}

	ctx := c.Request.Context()
	deltas := make(chan string, 64)
	task, err := s.assistant.Send(ctx, middleware.DocumentID(c), req.Message, func(d string) {
		select {
		case deltas <- d:
		case <-ctx.Done():
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Task-ID", task.ID.String())

	c.Stream(func(w io.Writer) bool {
		select {
		case d := <-deltas:
			c.SSEvent("delta", gin.H{"text": d})
			return true

		case <-task.Done():
		drain:
			for {
				select {
				case d := <-deltas:
					c.SSEvent("delta", gin.H{"text": d})
				default:
					break drain
				}
			}

			reply, err := task.Wait(context.Background())
			switch {
			case err == nil:
				c.SSEvent("done", reply)
			case stderrors.Is(err, context.Canceled):
				c.SSEvent("cancelled", gin.H{"task_id": task.ID.String()})
			default:
				_, body := errorBody(err)
				body["reply"] = reply
				c.SSEvent("error", body)
			}
			return false

		case <-ctx.Done():
			return false
		}
	})
}

func (s *Server) handleCancelChat(c *gin.Context) {
	if !s.assistantEnabled(c) {
		return
	}
	cancelled := s.assistant.Cancel(middleware.DocumentID(c))
	c.JSON(http.StatusOK, gin.H{"cancelled": cancelled})
}

func (s *Server) handleChatHistory(c *gin.Context) {
	if !s.assistantEnabled(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": s.assistant.History(middleware.DocumentID(c))})
}
