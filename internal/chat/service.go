// Package chat implements the chat engine: direct and group chat lifecycle,
// membership, message CRUD and system-message synthesis.
package chat

import (
	"errors"
	"fmt"
	"time"

	"socialite/backend/internal/models"
	"socialite/backend/internal/notifyhub"
	"socialite/backend/internal/storage"

	"go.uber.org/zap"
)

var (
	ErrNotActive     = errors.New("user is not active")
	ErrInvalidTarget = errors.New("target user unsuitable for this action")
	ErrSelfChat      = errors.New("cannot open a chat with yourself")
	ErrBlocked       = errors.New("a block relationship forbids this chat")
	ErrAlreadyExists = errors.New("a direct chat already exists for this pair")
	ErrNotMember     = errors.New("requester is not a member of this chat")
	ErrWrongChatType = errors.New("operation not valid for this chat type")
	ErrNotAuthor     = errors.New("only the author may modify a message")
	ErrEmptyText     = errors.New("message text must not be empty")
)

// Service is the chat engine.
type Service struct {
	Storage *storage.Service
	Events  *notifyhub.Publisher
	Logger  *zap.Logger
}

func NewService(s *storage.Service, events *notifyhub.Publisher, logger *zap.Logger) *Service {
	return &Service{Storage: s, Events: events, Logger: logger}
}

// CreateDirectChat opens the unique direct chat between requester and
// target, writing the chat, both memberships and the first message
// atomically. chatID is supplied by the caller so retries stay idempotent.
func (s *Service) CreateDirectChat(requesterID, targetID, chatID, firstMessage string) (*models.Chat, error) {
	requester, err := s.Storage.GetUserByID(requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.IsActive() {
		return nil, ErrNotActive
	}
	if targetID == requesterID {
		return nil, ErrSelfChat
	}
	target, err := s.Storage.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}
	if target.Status == models.UserStatusAnonymous {
		return nil, ErrInvalidTarget
	}
	blocked, err := s.Storage.BlockedEitherDirection(requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}
	if firstMessage == "" {
		return nil, ErrEmptyText
	}
	existing, err := s.Storage.GetDirectChatByPair(requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	pairKey := models.DirectPairKey(requesterID, targetID)
	chat := &models.Chat{
		ID:        chatID,
		Type:      models.ChatTypeDirect,
		PairKey:   &pairKey,
		CreatedAt: time.Now(),
	}
	msg := models.NewAuthoredMessage(chatID, requesterID, firstMessage, s.taggedUserIDs(firstMessage))
	err = s.Storage.CreateChatWithMembers(chat, []string{requesterID, targetID}, []*models.ChatMessage{msg})
	if err != nil {
		return nil, fmt.Errorf("create direct chat: %w", err)
	}

	s.notifyMessage(chat.ID, msg, []string{requesterID, targetID})
	return chat, nil
}

// CreateGroupChat opens a group chat. Invalid invitees (nonexistent,
// anonymous, block relationship with the requester) are skipped silently.
// The message sequence starts with the "created" system message, then the
// "added" system message when anyone was invited, then the caller's first
// message.
func (s *Service) CreateGroupChat(requesterID, chatID string, memberIDs []string, name *string, firstMessage string) (*models.Chat, error) {
	requester, err := s.Storage.GetUserByID(requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.IsActive() {
		return nil, ErrNotActive
	}
	if firstMessage == "" {
		return nil, ErrEmptyText
	}

	invitees, err := s.resolveEligibleMembers(requesterID, memberIDs)
	if err != nil {
		return nil, err
	}

	if name != nil && *name == "" {
		name = nil
	}
	chat := &models.Chat{
		ID:        chatID,
		Type:      models.ChatTypeGroup,
		Name:      name,
		CreatedAt: time.Now(),
	}

	messages := []*models.ChatMessage{systemCreatedMessage(chatID, requester, name)}
	if len(invitees) > 0 {
		messages = append(messages, systemAddedMessage(chatID, requester, invitees))
	}
	messages = append(messages,
		models.NewAuthoredMessage(chatID, requesterID, firstMessage, s.taggedUserIDs(firstMessage)))

	members := []string{requesterID}
	for _, u := range invitees {
		members = append(members, u.ID)
	}
	if err := s.Storage.CreateChatWithMembers(chat, members, messages); err != nil {
		return nil, fmt.Errorf("create group chat: %w", err)
	}

	payload := []byte(fmt.Sprintf(`{"chatId":%q}`, chat.ID))
	s.Events.PublishAll(members, models.NotificationChatMembership, payload)
	return chat, nil
}

// AddToGroupChat adds members to a group chat. Invalid or already-member
// ids are skipped silently; a call where everyone is skipped succeeds as a
// no-op and appends no system message.
func (s *Service) AddToGroupChat(requesterID, chatID string, memberIDs []string) ([]*models.User, error) {
	requester, chat, err := s.requireGroupMember(requesterID, chatID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.resolveEligibleMembers(requesterID, memberIDs)
	if err != nil {
		return nil, err
	}
	var added []*models.User
	for _, u := range eligible {
		isMember, err := s.Storage.IsMember(chatID, u.ID)
		if err != nil {
			return nil, err
		}
		if !isMember {
			added = append(added, u)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}

	ids := make([]string, len(added))
	for i, u := range added {
		ids[i] = u.ID
	}
	sysMsg := systemAddedMessage(chatID, requester, added)
	if err := s.Storage.AddMembers(chatID, ids, sysMsg); err != nil {
		return nil, fmt.Errorf("add to group chat: %w", err)
	}

	memberIDsAll, err := s.Storage.ListMemberIDs(chat.ID)
	if err == nil {
		payload := []byte(fmt.Sprintf(`{"chatId":%q}`, chat.ID))
		s.Events.PublishAll(memberIDsAll, models.NotificationChatMembership, payload)
	}
	return added, nil
}

// LeaveGroupChat removes the user from a group chat and appends the "left"
// system message. The chat persists for the remaining members.
func (s *Service) LeaveGroupChat(userID, chatID string) error {
	user, chat, err := s.requireGroupMember(userID, chatID)
	if err != nil {
		return err
	}
	sysMsg := systemLeftMessage(chatID, user)
	if err := s.Storage.RemoveMember(chatID, userID, sysMsg); err != nil {
		return fmt.Errorf("leave group chat: %w", err)
	}

	remaining, err := s.Storage.ListMemberIDs(chat.ID)
	if err == nil {
		payload := []byte(fmt.Sprintf(`{"chatId":%q}`, chat.ID))
		s.Events.PublishAll(append(remaining, userID), models.NotificationChatMembership, payload)
	}
	return nil
}

// EditGroupChatName renames a group chat. An empty name clears it.
func (s *Service) EditGroupChatName(userID, chatID, name string) error {
	user, chat, err := s.requireGroupMember(userID, chatID)
	if err != nil {
		return err
	}
	var newName *string
	if name != "" {
		newName = &name
	}
	sysMsg := systemNameChangedMessage(chatID, user, newName)
	if err := s.Storage.SetChatName(chatID, newName, sysMsg); err != nil {
		return fmt.Errorf("edit group chat: %w", err)
	}

	memberIDs, err := s.Storage.ListMemberIDs(chat.ID)
	if err == nil {
		payload := []byte(fmt.Sprintf(`{"chatId":%q}`, chat.ID))
		s.Events.PublishAll(memberIDs, models.NotificationChatMembership, payload)
	}
	return nil
}

// AddMessage appends an authored message to a chat the author is an active
// member of.
func (s *Service) AddMessage(authorID, chatID, text string) (*models.ChatMessage, error) {
	author, err := s.Storage.GetUserByID(authorID)
	if err != nil {
		return nil, err
	}
	if !author.IsActive() {
		return nil, ErrNotActive
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	if err := s.requireWritableChat(authorID, chatID); err != nil {
		return nil, err
	}

	msg := models.NewAuthoredMessage(chatID, authorID, text, s.taggedUserIDs(text))
	if err := s.Storage.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	memberIDs, err := s.Storage.ListMemberIDs(chatID)
	if err == nil {
		s.notifyMessage(chatID, msg, memberIDs)
	}
	return msg, nil
}

// EditMessage rewrites a message's text. Author-only; system messages have
// no author and therefore cannot be edited.
func (s *Service) EditMessage(editorID, messageID, text string) (*models.ChatMessage, error) {
	editor, err := s.Storage.GetUserByID(editorID)
	if err != nil {
		return nil, err
	}
	if !editor.IsActive() {
		return nil, ErrNotActive
	}
	if text == "" {
		return nil, ErrEmptyText
	}
	msg, err := s.Storage.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWritableChat(editorID, msg.ChatID); err != nil {
		return nil, err
	}
	if msg.AuthorID == nil || *msg.AuthorID != editorID {
		return nil, ErrNotAuthor
	}

	now := time.Now()
	msg.Text = text
	msg.TaggedUserIDs = s.taggedUserIDs(text)
	msg.LastEditedAt = &now
	if err := s.Storage.SaveMessage(msg); err != nil {
		return nil, fmt.Errorf("edit message: %w", err)
	}

	memberIDs, err := s.Storage.ListMemberIDs(msg.ChatID)
	if err == nil {
		s.notifyMessage(msg.ChatID, msg, memberIDs)
	}
	return msg, nil
}

// DeleteMessage removes a message. Author-only.
func (s *Service) DeleteMessage(requesterID, messageID string) error {
	msg, err := s.Storage.GetMessage(messageID)
	if err != nil {
		return err
	}
	if err := s.requireWritableChat(requesterID, msg.ChatID); err != nil {
		return err
	}
	if msg.AuthorID == nil || *msg.AuthorID != requesterID {
		return ErrNotAuthor
	}
	if err := s.Storage.DeleteMessage(messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	memberIDs, err := s.Storage.ListMemberIDs(msg.ChatID)
	if err == nil {
		s.notifyMessage(msg.ChatID, msg, memberIDs)
	}
	return nil
}

// requireWritableChat enforces the message-write preconditions: the chat
// exists and is not suppressed, the writer is a member, and for a direct
// chat no block stands between the members. A suppressed chat is invisible
// to both sides, so writes into it fail as if it did not exist.
func (s *Service) requireWritableChat(userID, chatID string) error {
	chat, err := s.Storage.GetChat(chatID)
	if err != nil {
		return err
	}
	if chat.Suppressed {
		return storage.ErrNotFound
	}
	isMember, err := s.Storage.IsMember(chatID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return ErrNotMember
	}
	if chat.Type != models.ChatTypeDirect {
		return nil
	}
	memberIDs, err := s.Storage.ListMemberIDs(chatID)
	if err != nil {
		return err
	}
	for _, id := range memberIDs {
		if id == userID {
			continue
		}
		blocked, err := s.Storage.BlockedEitherDirection(userID, id)
		if err != nil {
			return err
		}
		if blocked {
			return ErrBlocked
		}
	}
	return nil
}

// requireGroupMember loads the user and chat and enforces the shared group
// mutation preconditions: chat exists, is a GROUP, user is active and a
// member.
func (s *Service) requireGroupMember(userID, chatID string) (*models.User, *models.Chat, error) {
	user, err := s.Storage.GetUserByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive() {
		return nil, nil, ErrNotActive
	}
	chat, err := s.Storage.GetChat(chatID)
	if err != nil {
		return nil, nil, err
	}
	if chat.Type != models.ChatTypeGroup {
		return nil, nil, ErrWrongChatType
	}
	isMember, err := s.Storage.IsMember(chatID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !isMember {
		return nil, nil, ErrNotMember
	}
	return user, chat, nil
}

// taggedUserIDs resolves @mentions in a text to user ids. Unknown usernames
// are ignored.
func (s *Service) taggedUserIDs(text string) []string {
	var ids []string
	for _, username := range models.ParseMentions(text) {
		user, err := s.Storage.GetUserByUsername(username)
		if err != nil {
			continue
		}
		ids = append(ids, user.ID)
	}
	return ids
}

// notifyMessage fans a message event out to every member except the author.
func (s *Service) notifyMessage(chatID string, msg *models.ChatMessage, memberIDs []string) {
	payload := []byte(fmt.Sprintf(`{"chatId":%q,"messageId":%q}`, chatID, msg.ID))
	for _, id := range memberIDs {
		if msg.AuthorID != nil && *msg.AuthorID == id {
			continue
		}
		s.Events.Publish(models.Notification{UserID: id, Type: models.NotificationChatMessage, Payload: payload})
	}
}
