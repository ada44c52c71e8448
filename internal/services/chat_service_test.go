package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wavechat/internal/repository"
	wave_errors "wavechat/pkg/errors"

	"github.com/google/uuid"
)

func newTestChatService(t *testing.T) *ChatService {
	t.Helper()
	db := openTestDB(t)
	return NewChatService(
		repository.NewChatRepository(db),
		repository.NewMessageRepository(db),
		repository.NewFileRepository(db),
	)
}

func TestCreateChat_DefaultTitle(t *testing.T) {
	svc := newTestChatService(t)
	owner := uuid.New()

	c, err := svc.Create(context.Background(), CreateChatInput{OwnerID: owner, Title: "   "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Title != "New chat" {
		t.Fatalf("expected default title, got %q", c.Title)
	}
}

func TestGetOwned_OtherOwnerReadsAsNotFound(t *testing.T) {
	svc := newTestChatService(t)
	owner := uuid.New()

	c, err := svc.Create(context.Background(), CreateChatInput{OwnerID: owner, Title: "mine"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.GetOwned(context.Background(), c.ID, uuid.New())
	if !errors.Is(err, wave_errors.ErrNotFound) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
}

func TestAppendMessage_FirstUserMessageRetitles(t *testing.T) {
	svc := newTestChatService(t)
	owner := uuid.New()

	c, err := svc.Create(context.Background(), CreateChatInput{OwnerID: owner})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AppendMessage(context.Background(), c.ID, owner, AppendMessageInput{
		Role:    "user",
		Content: "How do I parse a CSV in Go?\nSecond line ignored",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := svc.GetOwned(context.Background(), c.ID, owner)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "How do I parse a CSV in Go?" {
		t.Fatalf("expected title from first line, got %q", got.Title)
	}

	// subsequent messages do not retitle
	if _, err := svc.AppendMessage(context.Background(), c.ID, owner, AppendMessageInput{
		Role: "user", Content: "Another question entirely",
	}); err != nil {
		t.Fatalf("second append: %v", err)
	}
	got, _ = svc.GetOwned(context.Background(), c.ID, owner)
	if got.Title != "How do I parse a CSV in Go?" {
		t.Fatalf("title changed on second message: %q", got.Title)
	}
}

func TestAppendMessage_AssistantFirstDoesNotRetitle(t *testing.T) {
	svc := newTestChatService(t)
	owner := uuid.New()

	c, err := svc.Create(context.Background(), CreateChatInput{OwnerID: owner, Title: "Untouched"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AppendMessage(context.Background(), c.ID, owner, AppendMessageInput{
		Role: "assistant", Content: "Hello, how can I help?",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, _ := svc.GetOwned(context.Background(), c.ID, owner)
	if got.Title != "Untouched" {
		t.Fatalf("assistant message retitled the chat: %q", got.Title)
	}
}

func TestDeriveTitle_Truncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := deriveTitle(long)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if len([]rune(got)) != titleMaxRunes+3 {
		t.Fatalf("unexpected truncated length %d", len([]rune(got)))
	}
}

func TestChatDetails_CollectsMessagesAndFiles(t *testing.T) {
	db := openTestDB(t)
	chatRepo := repository.NewChatRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	fileRepo := repository.NewFileRepository(db)
	svc := NewChatService(chatRepo, msgRepo, fileRepo)
	owner := uuid.New()

	c, err := svc.Create(context.Background(), CreateChatInput{OwnerID: owner, Title: "details"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, content := range []string{"first", "second"} {
		if _, err := svc.AppendMessage(context.Background(), c.ID, owner, AppendMessageInput{
			Role: "user", Content: content,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	details, err := svc.Details(context.Background(), c.ID, owner)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if len(details.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(details.Messages))
	}
	if details.Chat.ID != c.ID {
		t.Fatalf("details carry the wrong chat")
	}
}

func TestUpdateChat_PartialFields(t *testing.T) {
	svc := newTestChatService(t)
	owner := uuid.New()

	c, err := svc.Create(context.Background(), CreateChatInput{OwnerID: owner, Title: "old", Model: "gpt-4o"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newTitle := "new"
	updated, err := svc.Update(context.Background(), c.ID, owner, UpdateChatInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "new" || updated.Model != "gpt-4o" {
		t.Fatalf("partial update touched the wrong fields: %+v", updated)
	}
}

func TestNormalizePage(t *testing.T) {
	limit, offset := normalizePage(0, -5)
	if limit != 50 || offset != 0 {
		t.Fatalf("unexpected defaults %d/%d", limit, offset)
	}
	limit, _ = normalizePage(500, 0)
	if limit != 50 {
		t.Fatalf("expected oversized limit to reset, got %d", limit)
	}
}
