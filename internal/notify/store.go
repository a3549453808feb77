// Package notify holds the client-resident notification state for one
// logged-in user: the like and message notification lists shown as unread
// badges, reconciled against the realtime event stream.
package notify

import (
	"sync"
	"time"

	"github.com/snapgram/snapgram/internal/realtime"
)

// LikeEntry is one outstanding like notification, at most one per actor.
type LikeEntry struct {
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profilePic"`
	PostID         string    `json:"postId"`
	Time           time.Time `json:"time"`
	IsNew          bool      `json:"isNew"`
}

// MessageEntry is one outstanding message notification, at most one per
// sender.
type MessageEntry struct {
	SenderID string    `json:"senderId"`
	Text     string    `json:"text"`
	Time     time.Time `json:"time"`
	IsNew    bool      `json:"isNew"`
}

// Store is owned by a single client instance; it is never shared across
// users.
type Store struct {
	mu       sync.Mutex
	likes    []LikeEntry
	messages []MessageEntry
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// IngestNotification applies a like/dislike event. A like from an actor
// with an outstanding entry is a no-op; it neither duplicates the entry nor
// resets it to unread. A dislike removes the actor's entry if present.
func (s *Store) IngestNotification(n realtime.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch n.Type {
	case realtime.NotificationLike:
		for _, e := range s.likes {
			if e.UserID == n.UserID {
				return
			}
		}
		entry := LikeEntry{
			UserID:         n.UserID,
			Username:       n.UserDetails.Username,
			ProfilePicture: n.UserDetails.ProfilePicture,
			PostID:         n.PostID,
			Time:           s.now(),
			IsNew:          true,
		}
		s.likes = append([]LikeEntry{entry}, s.likes...)
	case realtime.NotificationDislike:
		kept := s.likes[:0]
		for _, e := range s.likes {
			if e.UserID != n.UserID {
				kept = append(kept, e)
			}
		}
		s.likes = kept
	}
}

// IngestMessage records a message notification. One entry per sender: a
// second message from an already-listed sender does not add or refresh an
// entry.
func (s *Store) IngestMessage(n realtime.MessageNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.messages {
		if e.SenderID == n.SenderID {
			return
		}
	}
	entry := MessageEntry{
		SenderID: n.SenderID,
		Text:     n.Text,
		Time:     s.now(),
		IsNew:    true,
	}
	s.messages = append([]MessageEntry{entry}, s.messages...)
}

// MarkAllRead is the read-reconciliation trigger: navigating to the
// notifications view flips every entry to read, locally and synchronously.
// Entries stay in their lists once read.
func (s *Store) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.likes {
		s.likes[i].IsNew = false
	}
	for i := range s.messages {
		s.messages[i].IsNew = false
	}
}

// UnreadLikes is the like badge count.
func (s *Store) UnreadLikes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.likes {
		if e.IsNew {
			n++
		}
	}
	return n
}

// UnreadMessages is the message badge count.
func (s *Store) UnreadMessages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.messages {
		if e.IsNew {
			n++
		}
	}
	return n
}

// Likes returns the like entries, most recent first.
func (s *Store) Likes() []LikeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LikeEntry, len(s.likes))
	copy(out, s.likes)
	return out
}

// Messages returns the message entries, most recent first.
func (s *Store) Messages() []MessageEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MessageEntry, len(s.messages))
	copy(out, s.messages)
	return out
}
