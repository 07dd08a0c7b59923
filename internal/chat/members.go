package chat

import (
	"fmt"
	"strings"

	"socialite/backend/internal/models"
)

// resolveEligibleMembers filters a caller-supplied member id list down to
// the users who may actually join a chat with the requester: existing,
// non-anonymous, no block in either direction, not the requester (who is
// always added separately). Invalid ids are skipped silently, never an
// error. Order of the surviving ids is preserved.
func (s *Service) resolveEligibleMembers(requesterID string, candidateIDs []string) ([]*models.User, error) {
	seen := map[string]bool{requesterID: true}
	var unique []string
	for _, id := range candidateIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	found, err := s.Storage.GetUsersByIDs(unique)
	if err != nil {
		return nil, err
	}

	var eligible []*models.User
	for _, id := range unique {
		user, ok := found[id]
		if !ok {
			continue
		}
		if user.Status == models.UserStatusAnonymous {
			continue
		}
		blocked, err := s.Storage.BlockedEitherDirection(requesterID, id)
		if err != nil {
			return nil, err
		}
		if blocked {
			continue
		}
		eligible = append(eligible, user)
	}
	return eligible, nil
}

// System message synthesis. Tagged users carry every human the text
// mentions.

func systemCreatedMessage(chatID string, requester *models.User, name *string) *models.ChatMessage {
	text := fmt.Sprintf("@%s created the group", requester.Username)
	if name != nil && *name != "" {
		text = fmt.Sprintf("%s %q", text, *name)
	}
	return models.NewSystemMessage(chatID, text, []string{requester.ID})
}

func systemAddedMessage(chatID string, requester *models.User, added []*models.User) *models.ChatMessage {
	names := make([]string, len(added))
	tagged := make([]string, 0, len(added)+1)
	tagged = append(tagged, requester.ID)
	for i, u := range added {
		names[i] = "@" + u.Username
		tagged = append(tagged, u.ID)
	}
	text := fmt.Sprintf("@%s added %s to the group", requester.Username, strings.Join(names, ", "))
	return models.NewSystemMessage(chatID, text, tagged)
}

func systemLeftMessage(chatID string, user *models.User) *models.ChatMessage {
	text := fmt.Sprintf("@%s left the group", user.Username)
	return models.NewSystemMessage(chatID, text, []string{user.ID})
}

func systemNameChangedMessage(chatID string, user *models.User, name *string) *models.ChatMessage {
	var text string
	if name == nil || *name == "" {
		text = fmt.Sprintf("@%s deleted the name", user.Username)
	} else {
		text = fmt.Sprintf("@%s changed the name to %q", user.Username, *name)
	}
	return models.NewSystemMessage(chatID, text, []string{user.ID})
}
