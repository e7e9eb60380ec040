package rag

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/flashlearn/internal/apperr"
	"github.com/ziadkadry99/flashlearn/internal/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketRequest is the incoming websocket message.
type socketRequest struct {
	Subject  string `json:"subject"`
	Question string `json:"question"`
}

// socketResponse is the outgoing websocket message.
type socketResponse struct {
	Type    string `json:"type"` // "answer" or "error"
	Subject string `json:"subject,omitempty"`
	Content string `json:"content"`
	Kind    string `json:"kind,omitempty"`
}

// handleAskSocket answers questions over a long-lived websocket, one
// response per request message.
func handleAskSocket(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn(r.Context(), "websocket upgrade failed", "error", err.Error())
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn(r.Context(), "websocket read failed", "error", err.Error())
				}
				return
			}

			var req socketRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				if !sendSocket(r, conn, socketResponse{Type: "error", Content: "invalid message format", Kind: string(apperr.KindInvalidInput)}) {
					return
				}
				continue
			}

			resp := socketResponse{Type: "answer", Subject: req.Subject}
			answer, err := svc.Answer(r.Context(), req.Subject, req.Question)
			if err != nil {
				resp.Type = "error"
				resp.Content = apperr.PublicMessage(err)
				resp.Kind = string(apperr.KindOf(err))
			} else {
				resp.Content = answer
			}
			if !sendSocket(r, conn, resp) {
				return
			}
		}
	}
}

func sendSocket(r *http.Request, conn *websocket.Conn, resp socketResponse) bool {
	if err := conn.WriteJSON(resp); err != nil {
		logger.Warn(r.Context(), "websocket write failed", "error", err.Error())
		return false
	}
	return true
}
