package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snapgram/snapgram/internal/realtime"
)

func like(userID string) realtime.Notification {
	return realtime.Notification{
		Type:   realtime.NotificationLike,
		UserID: userID,
		UserDetails: realtime.UserDetails{
			ID:       userID,
			Username: "user-" + userID,
		},
		PostID:  "p1",
		Message: "Your post was liked",
	}
}

func dislike(userID string) realtime.Notification {
	return realtime.Notification{
		Type:   realtime.NotificationDislike,
		UserID: userID,
		PostID: "p1",
	}
}

func TestLikeIsIdempotentPerActor(t *testing.T) {
	s := NewStore()

	s.IngestNotification(like("a"))
	s.IngestNotification(like("a"))

	entries := s.Likes()
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].UserID)
	assert.True(t, entries[0].IsNew)
	assert.Equal(t, 1, s.UnreadLikes())
}

func TestDislikeWithoutLikeIsNoop(t *testing.T) {
	s := NewStore()

	s.IngestNotification(dislike("a"))

	assert.Empty(t, s.Likes())
	assert.Equal(t, 0, s.UnreadLikes())
}

func TestDislikeRemovesActorEntry(t *testing.T) {
	s := NewStore()

	s.IngestNotification(like("a"))
	s.IngestNotification(like("b"))
	s.IngestNotification(dislike("a"))

	entries := s.Likes()
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].UserID)
}

func TestMessageDedupPerSender(t *testing.T) {
	s := NewStore()

	s.IngestMessage(realtime.MessageNotification{SenderID: "a", Text: "first"})
	s.IngestMessage(realtime.MessageNotification{SenderID: "a", Text: "second"})

	entries := s.Messages()
	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].Text, "a later message from the same sender must not replace the entry")
	assert.Equal(t, 1, s.UnreadMessages())
}

func TestEntriesAreMostRecentFirst(t *testing.T) {
	s := NewStore()

	s.IngestNotification(like("a"))
	s.IngestNotification(like("b"))
	s.IngestNotification(like("c"))

	entries := s.Likes()
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].UserID)
	assert.Equal(t, "b", entries[1].UserID)
	assert.Equal(t, "a", entries[2].UserID)
}

func TestMarkAllRead(t *testing.T) {
	s := NewStore()
	s.IngestNotification(like("a"))
	s.IngestNotification(like("b"))
	s.IngestMessage(realtime.MessageNotification{SenderID: "m1", Text: "hey"})

	s.MarkAllRead()

	assert.Equal(t, 0, s.UnreadLikes())
	assert.Equal(t, 0, s.UnreadMessages())

	// Entries stay in their lists once read.
	assert.Len(t, s.Likes(), 2)
	assert.Len(t, s.Messages(), 1)

	// A repeat event from a known actor must not flip its entry back.
	s.IngestNotification(like("a"))
	s.IngestMessage(realtime.MessageNotification{SenderID: "m1", Text: "again"})
	assert.Equal(t, 0, s.UnreadLikes())
	assert.Equal(t, 0, s.UnreadMessages())

	// A brand-new actor after the read trigger produces a fresh unread entry.
	s.IngestNotification(like("z"))
	assert.Equal(t, 1, s.UnreadLikes())
}
