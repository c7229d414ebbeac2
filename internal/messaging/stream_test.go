package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository is an in-memory message store. Matches are a static
// member table; messages get increasing ids on append.
type fakeRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages []*Message
	members  map[int64][]int64 // matchID -> member user ids
}

func newFakeRepository(members map[int64][]int64) *fakeRepository {
	return &fakeRepository{nextID: 1, members: members}
}

func (r *fakeRepository) append(matchID, senderID int64, text string) *Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := &Message{
		ID:        r.nextID,
		MatchID:   matchID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.messages = append(r.messages, msg)
	return msg
}

func (r *fakeRepository) CreateMessage(_ context.Context, msg *Message) error {
	stored := r.append(msg.MatchID, msg.SenderID, msg.Text)
	msg.ID = stored.ID
	msg.CreatedAt = stored.CreatedAt
	return nil
}

func (r *fakeRepository) ListMatchMessages(_ context.Context, matchID int64, limit int) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Message
	for _, m := range r.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *fakeRepository) ListNewMessages(_ context.Context, userID, afterID int64) ([]*Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Message
	for _, m := range r.messages {
		if m.ID <= afterID || m.SenderID == userID {
			continue
		}
		if !r.isMember(m.MatchID, userID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeRepository) MaxMessageID(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return 0, nil
	}
	return r.messages[len(r.messages)-1].ID, nil
}

func (r *fakeRepository) IsMatchMember(_ context.Context, matchID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isMember(matchID, userID), nil
}

func (r *fakeRepository) isMember(matchID, userID int64) bool {
	for _, id := range r.members[matchID] {
		if id == userID {
			return true
		}
	}
	return false
}

// chanEventWriter collects written events on a channel.
type chanEventWriter struct {
	events chan *StreamEvent
}

func newChanEventWriter() *chanEventWriter {
	return &chanEventWriter{events: make(chan *StreamEvent, 64)}
}

func (w *chanEventWriter) WriteEvent(ev *StreamEvent) error {
	w.events <- ev
	return nil
}

func (w *chanEventWriter) next(t *testing.T) *StreamEvent {
	t.Helper()
	select {
	case ev := <-w.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream event")
		return nil
	}
}

func (w *chanEventWriter) expectNone(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case ev := <-w.events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(d):
	}
}

func startStream(t *testing.T, repo Repository, userID int64, keepAlive time.Duration) (*chanEventWriter, chan struct{}, context.CancelFunc, chan error) {
	t.Helper()
	svc := &service{repo: repo, keepAlive: keepAlive}
	writer := newChanEventWriter()
	wake := make(chan struct{}, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- svc.StreamEvents(ctx, userID, wake, writer)
	}()
	return writer, wake, cancel, done
}

func TestStreamDeliversPartnerMessages(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	writer, wake, cancel, done := startStream(t, repo, 1, time.Hour)
	defer cancel()

	repo.append(10, 2, "hey")
	wake <- struct{}{}

	ev := writer.next(t)
	require.Equal(t, EventTypeMessage, ev.Type)
	assert.Equal(t, "hey", ev.Message.Text)
	assert.Equal(t, int64(2), ev.Message.SenderID)

	cancel()
	assert.NoError(t, <-done)
}

func TestStreamSkipsOwnAndForeignMessages(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}, 20: {3, 4}})
	writer, wake, cancel, done := startStream(t, repo, 1, time.Hour)
	defer cancel()

	repo.append(10, 1, "mine")          // own message
	repo.append(20, 3, "other people") // match the user is not in
	repo.append(10, 2, "for me")
	wake <- struct{}{}

	ev := writer.next(t)
	require.Equal(t, EventTypeMessage, ev.Type)
	assert.Equal(t, "for me", ev.Message.Text)
	writer.expectNone(t, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestStreamNeverDuplicates(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	writer, wake, cancel, done := startStream(t, repo, 1, time.Hour)
	defer cancel()

	repo.append(10, 2, "first")
	wake <- struct{}{}
	ev := writer.next(t)
	assert.Equal(t, "first", ev.Message.Text)

	// A spurious wake-up with nothing new produces nothing.
	wake <- struct{}{}
	writer.expectNone(t, 100*time.Millisecond)

	repo.append(10, 2, "second")
	wake <- struct{}{}
	ev = writer.next(t)
	assert.Equal(t, "second", ev.Message.Text)
	writer.expectNone(t, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestStreamIgnoresHistoryBeforeConnect(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	repo.append(10, 2, "before connect")

	writer, wake, cancel, done := startStream(t, repo, 1, time.Hour)
	defer cancel()

	wake <- struct{}{}
	writer.expectNone(t, 100*time.Millisecond)

	repo.append(10, 2, "after connect")
	wake <- struct{}{}
	ev := writer.next(t)
	assert.Equal(t, "after connect", ev.Message.Text)

	cancel()
	assert.NoError(t, <-done)
}

func TestStreamEmitsKeepAliveWhenIdle(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	writer, _, cancel, done := startStream(t, repo, 1, 20*time.Millisecond)
	defer cancel()

	ev := writer.next(t)
	assert.Equal(t, EventTypeKeepAlive, ev.Type)
	ev = writer.next(t)
	assert.Equal(t, EventTypeKeepAlive, ev.Type)

	cancel()
	assert.NoError(t, <-done)
}

func TestStreamStopsOnCancelOnly(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	_, _, cancel, done := startStream(t, repo, 1, 10*time.Millisecond)

	select {
	case err := <-done:
		t.Fatalf("stream ended on its own: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after cancellation")
	}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	svc := NewService(repo)

	_, err := svc.SendMessage(context.Background(), 3, 10, &SendMessageRequest{Text: "hi"})
	assert.ErrorIs(t, err, ErrNotMatchMember)

	msg, err := svc.SendMessage(context.Background(), 1, 10, &SendMessageRequest{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
}

func TestGetMessagesNonMemberSeesNothing(t *testing.T) {
	repo := newFakeRepository(map[int64][]int64{10: {1, 2}})
	repo.append(10, 1, "secret")
	svc := NewService(repo)

	msgs, err := svc.GetMessages(context.Background(), 3, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = svc.GetMessages(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
