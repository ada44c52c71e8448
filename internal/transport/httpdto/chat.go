package httpdto

import (
	"time"

	"wavechat/internal/domain/chat"
)

type CreateChatRequest struct {
	Title        string `json:"title"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt"`
}

type UpdateChatRequest struct {
	Title        *string `json:"title"`
	Model        *string `json:"model"`
	SystemPrompt *string `json:"system_prompt"`
}

type AppendMessageRequest struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	Model      string `json:"model"`
	TokenCount int    `json:"token_count"`
}

type ChatResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model,omitempty"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MessageResponse struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	Role       string    `json:"role"`
	Content    string    `json:"content"`
	Model      string    `json:"model,omitempty"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type ListChatsResponse struct {
	Chats []ChatResponse `json:"chats"`
	Total int64          `json:"total"`
}

type ChatDetailsResponse struct {
	Chat     ChatResponse      `json:"chat"`
	Messages []MessageResponse `json:"messages"`
	Files    []FileResponse    `json:"files"`
}

func FromChat(c chat.Chat) ChatResponse {
	res := ChatResponse{
		ID:        c.ID.String(),
		Title:     c.Title,
		Model:     c.Model,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.SystemPrompt.Valid {
		res.SystemPrompt = c.SystemPrompt.String
	}
	return res
}

func FromChatSlice(items []chat.Chat) []ChatResponse {
	res := make([]ChatResponse, 0, len(items))
	for _, c := range items {
		res = append(res, FromChat(c))
	}
	return res
}

func FromMessage(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID.String(),
		ChatID:     m.ChatID.String(),
		Role:       m.Role,
		Content:    m.Content,
		Model:      m.Model,
		TokenCount: m.TokenCount,
		CreatedAt:  m.CreatedAt,
	}
}

func FromMessageSlice(items []chat.Message) []MessageResponse {
	res := make([]MessageResponse, 0, len(items))
	for _, m := range items {
		res = append(res, FromMessage(m))
	}
	return res
}
