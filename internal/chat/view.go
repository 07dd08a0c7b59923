package chat

import (
	"socialite/backend/internal/models"
	"socialite/backend/internal/storage"
)

// MessageView is a message as one viewer sees it. Author keeps its id even
// when the resolved profile is suppressed by a block relationship.
type MessageView struct {
	*models.ChatMessage
	Author *models.User `json:"author"`
}

// ChatView is a chat as one viewer sees it.
type ChatView struct {
	*models.Chat
	MemberCount int64         `json:"memberCount"`
	Messages    []MessageView `json:"messages"`
}

// GetChatForViewer resolves a chat for a viewer. Non-members and members of
// a suppressed chat get storage.ErrNotFound, which read surfaces translate
// to a null field rather than an error.
func (s *Service) GetChatForViewer(viewerID, chatID string, limit, offset int) (*ChatView, error) {
	chat, err := s.Storage.GetChat(chatID)
	if err != nil {
		return nil, err
	}
	if chat.Suppressed {
		return nil, storage.ErrNotFound
	}
	isMember, err := s.Storage.IsMember(chatID, viewerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, storage.ErrNotFound
	}

	count, err := s.Storage.CountMembers(chatID)
	if err != nil {
		return nil, err
	}
	messages, err := s.MessagesForViewer(viewerID, chatID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ChatView{Chat: chat, MemberCount: count, Messages: messages}, nil
}

// MessagesForViewer returns the chat's message sequence with each author
// resolved, or left nil when a block relationship between viewer and author
// suppresses the profile. Message content stays visible either way.
func (s *Service) MessagesForViewer(viewerID, chatID string, limit, offset int) ([]MessageView, error) {
	msgs, err := s.Storage.ListMessages(chatID, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(msgs))
	resolved := make(map[string]*models.User)
	suppressed := make(map[string]bool)
	for _, msg := range msgs {
		view := MessageView{ChatMessage: msg}
		if msg.AuthorID != nil {
			id := *msg.AuthorID
			if _, known := suppressed[id]; !known {
				blocked, err := s.Storage.BlockedEitherDirection(viewerID, id)
				if err != nil {
					return nil, err
				}
				suppressed[id] = blocked && id != viewerID
				if !suppressed[id] {
					user, err := s.Storage.GetUserByID(id)
					if err == nil {
						resolved[id] = user
					}
				}
			}
			if !suppressed[id] {
				view.Author = resolved[id]
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ChatUsersForViewer returns the member list as the viewer sees it. Members
// the viewer has blocked are filtered out (asymmetric: the blocked side
// still sees the blocker). excludeUserID additionally drops one id, usually
// the viewer's own.
func (s *Service) ChatUsersForViewer(viewerID, chatID, excludeUserID string) ([]*models.User, error) {
	chat, err := s.Storage.GetChat(chatID)
	if err != nil {
		return nil, err
	}
	if chat.Suppressed {
		return nil, storage.ErrNotFound
	}
	isMember, err := s.Storage.IsMember(chatID, viewerID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, storage.ErrNotFound
	}

	memberIDs, err := s.Storage.ListMemberIDs(chatID)
	if err != nil {
		return nil, err
	}
	users, err := s.Storage.GetUsersByIDs(memberIDs)
	if err != nil {
		return nil, err
	}

	var result []*models.User
	for _, id := range memberIDs {
		if id == excludeUserID {
			continue
		}
		user, ok := users[id]
		if !ok {
			continue
		}
		if id != viewerID {
			blocking, err := s.Storage.BlockExists(viewerID, id)
			if err != nil {
				return nil, err
			}
			if blocking {
				continue
			}
		}
		result = append(result, user)
	}
	return result, nil
}

// ListChatsForViewer returns the viewer's visible chats with member counts.
func (s *Service) ListChatsForViewer(viewerID string, limit, offset int) ([]*ChatView, error) {
	chats, err := s.Storage.ListChatsForUser(viewerID, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]*ChatView, 0, len(chats))
	for _, c := range chats {
		count, err := s.Storage.CountMembers(c.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, &ChatView{Chat: c, MemberCount: count})
	}
	return views, nil
}

// DirectChatWith resolves the viewer's live direct chat with another user,
// nil when none exists or it is suppressed.
func (s *Service) DirectChatWith(viewerID, otherUserID string) (*models.Chat, error) {
	return s.Storage.GetDirectChatByPair(viewerID, otherUserID)
}
