package server

import (
	"align/domain"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

// MaxMessageLength bounds a single turn or history entry, in bytes.
const MaxMessageLength = 16000

var validate = validator.New()

type messageDTO struct {
	Role    string `json:"role" validate:"required,max=32"`
	Content string `json:"content" validate:"max=16000"`
	Sender  string `json:"sender,omitempty" validate:"max=100"`
}

type participantsDTO struct {
	User  string `json:"user" validate:"max=100"`
	Other string `json:"other" validate:"max=100"`
}

type ventRequest struct {
	Message             string       `json:"message" validate:"max=16000"`
	ConversationHistory []messageDTO `json:"conversationHistory" validate:"max=500,dive"`
	SessionID           *int64       `json:"sessionId" validate:"omitempty,gt=0"`
}

type mediateRequest struct {
	Message      string          `json:"message" validate:"max=16000"`
	Conversation []messageDTO    `json:"conversation" validate:"max=500,dive"`
	Participants participantsDTO `json:"participants"`
	Sender       string          `json:"sender" validate:"omitempty,oneof=user other"`
	SessionID    *int64          `json:"sessionId" validate:"omitempty,gt=0"`
}

type turnResponse struct {
	Response  string `json:"response"`
	SessionID *int64 `json:"sessionId"`
	Success   bool   `json:"success"`
	Fallback  bool   `json:"fallback,omitempty"`
}

type sessionDTO struct {
	ID           int64            `json:"id"`
	Kind         domain.Kind      `json:"kind"`
	Title        string           `json:"title"`
	Participants *participantsDTO `json:"participants,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Messages     []messageDTO     `json:"messages"`
}

type listResponse struct {
	Sessions []sessionDTO `json:"sessions"`
	Success  bool         `json:"success"`
}

type sessionResponse struct {
	Session sessionDTO `json:"session"`
	Success bool       `json:"success"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

func toMessages(dtos []messageDTO) []domain.Message {
	return lo.Map(dtos, func(m messageDTO, _ int) domain.Message {
		return domain.Message{Role: domain.Role(m.Role), Content: m.Content, Sender: m.Sender}
	})
}

func toSessionDTO(s domain.Session) sessionDTO {
	dto := sessionDTO{
		ID:        s.ID,
		Kind:      s.Kind,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages: lo.Map(s.Messages, func(m domain.Message, _ int) messageDTO {
			return messageDTO{Role: string(m.Role), Content: m.Content, Sender: m.Sender}
		}),
	}
	if s.Participants != nil {
		dto.Participants = &participantsDTO{User: s.Participants.User, Other: s.Participants.Other}
	}
	return dto
}
