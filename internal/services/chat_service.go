package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"wavechat/internal/domain/chat"
	"wavechat/internal/domain/file"
	"wavechat/internal/repository"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const titleMaxRunes = 50

type ChatService struct {
	chatRepo repository.ChatRepository
	msgRepo  repository.MessageRepository
	fileRepo repository.FileRepository
}

func NewChatService(chatRepo repository.ChatRepository, msgRepo repository.MessageRepository, fileRepo repository.FileRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, msgRepo: msgRepo, fileRepo: fileRepo}
}

type CreateChatInput struct {
	OwnerID      uuid.UUID
	Title        string
	Model        string
	SystemPrompt string
}

type UpdateChatInput struct {
	Title        *string
	Model        *string
	SystemPrompt *string
}

type AppendMessageInput struct {
	Role       string
	Content    string
	Model      string
	TokenCount int
}

// ChatDetails bundles the reads for the chat details endpoint.
type ChatDetails struct {
	Chat     chat.Chat
	Messages []chat.Message
	Files    []file.Upload
}

func (s *ChatService) Create(ctx context.Context, in CreateChatInput) (chat.Chat, error) {
	if in.OwnerID == uuid.Nil {
		return chat.Chat{}, wave_errors.ErrInvalidInput
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "New chat"
	}

	c := chat.Chat{
		ID:        uuid.New(),
		OwnerID:   in.OwnerID,
		Title:     title,
		Model:     in.Model,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if in.SystemPrompt != "" {
		c.SystemPrompt.String = in.SystemPrompt
		c.SystemPrompt.Valid = true
	}

	if err := s.chatRepo.Create(ctx, &c); err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

// GetOwned loads a chat and enforces ownership. A chat owned by someone
// else reads as not found so existence is never leaked.
func (s *ChatService) GetOwned(ctx context.Context, chatID, ownerID uuid.UUID) (chat.Chat, error) {
	c, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return chat.Chat{}, err
	}
	if c.OwnerID != ownerID {
		return chat.Chat{}, wave_errors.ErrNotFound
	}
	return c, nil
}

func (s *ChatService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]chat.Chat, int64, error) {
	limit, offset = normalizePage(limit, offset)
	return s.chatRepo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *ChatService) Update(ctx context.Context, chatID, ownerID uuid.UUID, in UpdateChatInput) (chat.Chat, error) {
	c, err := s.GetOwned(ctx, chatID, ownerID)
	if err != nil {
		return chat.Chat{}, err
	}

	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Model != nil {
		c.Model = *in.Model
	}
	if in.SystemPrompt != nil {
		c.SystemPrompt.String = *in.SystemPrompt
		c.SystemPrompt.Valid = *in.SystemPrompt != ""
	}

	if err := s.chatRepo.Update(ctx, c); err != nil {
		return chat.Chat{}, err
	}
	return c, nil
}

func (s *ChatService) Delete(ctx context.Context, chatID, ownerID uuid.UUID) error {
	if _, err := s.GetOwned(ctx, chatID, ownerID); err != nil {
		return err
	}
	return s.chatRepo.Delete(ctx, chatID)
}

// AppendMessage stores a message in an owned chat. The first user message
// also retitles the chat from its content.
func (s *ChatService) AppendMessage(ctx context.Context, chatID, ownerID uuid.UUID, in AppendMessageInput) (chat.Message, error) {
	if in.Role == "" || in.Content == "" {
		return chat.Message{}, wave_errors.ErrInvalidInput
	}

	c, err := s.GetOwned(ctx, chatID, ownerID)
	if err != nil {
		return chat.Message{}, err
	}

	existing, err := s.msgRepo.CountByChat(ctx, chatID)
	if err != nil {
		return chat.Message{}, err
	}

	m := chat.Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		Role:       in.Role,
		Content:    in.Content,
		Model:      in.Model,
		TokenCount: in.TokenCount,
		CreatedAt:  time.Now(),
	}
	if err := s.msgRepo.Create(ctx, &m); err != nil {
		return chat.Message{}, err
	}

	if existing == 0 && in.Role == "user" {
		c.Title = deriveTitle(in.Content)
		if updateErr := s.chatRepo.Update(ctx, c); updateErr != nil {
			return chat.Message{}, updateErr
		}
	}

	return m, nil
}

func (s *ChatService) ListMessages(ctx context.Context, chatID, ownerID uuid.UUID) ([]chat.Message, error) {
	if _, err := s.GetOwned(ctx, chatID, ownerID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListByChat(ctx, chatID)
}

func (s *ChatService) ListFiles(ctx context.Context, chatID, ownerID uuid.UUID) ([]file.Upload, error) {
	if _, err := s.GetOwned(ctx, chatID, ownerID); err != nil {
		return nil, err
	}
	return s.fileRepo.ListByChat(ctx, chatID)
}

// Details fetches the chat's messages and files concurrently; both reads
// are independent and read-only, so no ordering is needed between them.
func (s *ChatService) Details(ctx context.Context, chatID, ownerID uuid.UUID) (ChatDetails, error) {
	c, err := s.GetOwned(ctx, chatID, ownerID)
	if err != nil {
		return ChatDetails{}, err
	}

	details := ChatDetails{Chat: c}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		msgs, err := s.msgRepo.ListByChat(gctx, chatID)
		if err != nil {
			return err
		}
		details.Messages = msgs
		return nil
	})
	g.Go(func() error {
		files, err := s.fileRepo.ListByChat(gctx, chatID)
		if err != nil {
			return err
		}
		details.Files = files
		return nil
	})

	if err := g.Wait(); err != nil {
		return ChatDetails{}, err
	}
	return details, nil
}

func deriveTitle(content string) string {
	title := strings.TrimSpace(content)
	if line, _, found := strings.Cut(title, "\n"); found {
		title = strings.TrimSpace(line)
	}
	if utf8.RuneCountInString(title) > titleMaxRunes {
		runes := []rune(title)
		title = strings.TrimSpace(string(runes[:titleMaxRunes])) + "..."
	}
	if title == "" {
		return "New chat"
	}
	return title
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
