package server

import (
	"align/auth"
	"align/domain"
	"align/errors"
	"align/services"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// readJSON decodes a JSON request body with a size limit and validates its tags.
func readJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return v, fmt.Errorf("%w: invalid request body", errors.ErrValidation)
	}
	if err := validate.Struct(v); err != nil {
		return v, fmt.Errorf("%w: request fields are invalid", errors.ErrValidation)
	}
	return v, nil
}

func (s *Server) handleVentTurn(w http.ResponseWriter, r *http.Request) {
	body, err := readJSON[ventRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.turn(w, r, services.TurnCommand{
		Input:     domain.TurnInput{Kind: domain.KindVent, Message: body.Message},
		SessionID: body.SessionID,
		History:   toMessages(body.ConversationHistory),
	})
}

func (s *Server) handleMediateTurn(w http.ResponseWriter, r *http.Request) {
	body, err := readJSON[mediateRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.turn(w, r, services.TurnCommand{
		Input: domain.TurnInput{
			Kind:    domain.KindMediation,
			Message: body.Message,
			Speaker: domain.Speaker(body.Sender),
			Participants: domain.Participants{
				User:  body.Participants.User,
				Other: body.Participants.Other,
			},
		},
		SessionID: body.SessionID,
		History:   toMessages(body.Conversation),
	})
}

func (s *Server) turn(w http.ResponseWriter, r *http.Request, cmd services.TurnCommand) {
	ownerID, ok := auth.SubjectIDFromContext(r.Context())
	if !ok {
		s.writeError(w, r, errors.ErrUnauthorized)
		return
	}
	cmd.OwnerID = ownerID

	result, err := s.conversations.Turn(r.Context(), cmd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Response:  result.Response,
		SessionID: result.SessionID,
		Success:   true,
		Fallback:  result.Fallback,
	})
}

func (s *Server) handleList(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.SubjectIDFromContext(r.Context())
		if !ok {
			s.writeError(w, r, errors.ErrUnauthorized)
			return
		}

		sessions, err := s.conversations.ListSessions(r.Context(), kind, ownerID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, listResponse{
			Sessions: lo.Map(sessions, func(session domain.Session, _ int) sessionDTO { return toSessionDTO(session) }),
			Success:  true,
		})
	}
}

func (s *Server) handleGet(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := auth.SubjectIDFromContext(r.Context())
		if !ok {
			s.writeError(w, r, errors.ErrUnauthorized)
			return
		}

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: invalid session id", errors.ErrValidation))
			return
		}

		session, err := s.conversations.GetSession(r.Context(), kind, id, ownerID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{Session: toSessionDTO(session), Success: true})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"turns":  s.stats.Snapshot(),
	})
}
