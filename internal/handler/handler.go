package handler

import (
	"github.com/fizipop/uni-ai-app/internal/advisor"
	"github.com/fizipop/uni-ai-app/internal/chat"
	"github.com/fizipop/uni-ai-app/internal/storage"
)

// Handler bundles the services the HTTP layer dispatches into.
type Handler struct {
	store   *storage.Store
	advisor *advisor.Service
	chat    *chat.Service
}

func New(store *storage.Store, advisorSvc *advisor.Service, chatSvc *chat.Service) *Handler {
	return &Handler{store: store, advisor: advisorSvc, chat: chatSvc}
}

type SuccessResponse struct {
	Message string `json:"message" example:"Account created successfully"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"error cause"`
}
