package store

import (
	"maps"
	"slices"
	"sync"
)

// Listener receives the state after every mutation. Listeners may read the
// store but must not mutate it or subscribe from inside the callback.
type Listener func(Snapshot)

// ChatStore holds the active chat transcript, the chat list and the pending flag.
// It never talks to the network. Mutations are serialized by mu; listeners are
// called after the lock is released, in mutation order.
type ChatStore struct {
	mu           sync.Mutex
	activeChatID string
	messages     []Message
	chats        []ChatSummary
	pending      bool
	// generation changes whenever the active chat changes; fetch results tagged
	// with an older generation are stale.
	generation uint64

	notifyMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func New() *ChatStore {
	return &ChatStore{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a function that removes it.
func (s *ChatStore) Subscribe(fn Listener) func() {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.listeners, id)
		s.notifyMu.Unlock()
	}
}

func (s *ChatStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *ChatStore) snapshotLocked() Snapshot {
	return Snapshot{
		ActiveChatID: s.activeChatID,
		Messages:     append([]Message(nil), s.messages...),
		Chats:        append([]ChatSummary(nil), s.chats...),
		Pending:      s.pending,
		Generation:   s.generation,
	}
}

// mutate runs fn under the state lock and notifies listeners when fn reports a change.
func (s *ChatStore) mutate(fn func() bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	changed := fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		s.listeners[id](snap)
	}
}

func (s *ChatStore) resetLocked() {
	s.messages = nil
	s.activeChatID = ""
	s.generation++
}

// Reset starts a not-yet-created chat.
func (s *ChatStore) Reset() {
	s.mutate(func() bool {
		s.resetLocked()
		return true
	})
}

// LoadChats replaces the chat list wholesale, keeping backend order.
func (s *ChatStore) LoadChats(chats []ChatSummary) {
	s.mutate(func() bool {
		s.chats = append([]ChatSummary(nil), chats...)
		return true
	})
}

// SelectChat makes chatID active and returns the generation that a following
// history fetch must present to HydrateMessages. The transcript is emptied so
// the view shows a chosen-but-loading chat until the caller hydrates it.
func (s *ChatStore) SelectChat(chatID string) uint64 {
	var gen uint64
	s.mutate(func() bool {
		s.activeChatID = chatID
		s.messages = nil
		s.generation++
		gen = s.generation
		return true
	})
	return gen
}

// SetActiveChat records the id the backend assigned to the current chat
// without touching messages. It is a no-op when chatID is already active.
func (s *ChatStore) SetActiveChat(chatID string) {
	s.mutate(func() bool {
		if s.activeChatID == chatID {
			return false
		}
		s.activeChatID = chatID
		s.generation++
		return true
	})
}

// SetMessages replaces the transcript wholesale.
func (s *ChatStore) SetMessages(msgs []Message) {
	s.mutate(func() bool {
		s.messages = append([]Message(nil), msgs...)
		return true
	})
}

// HydrateMessages replaces the transcript only if gen is still the current
// generation. It reports whether the messages were applied.
func (s *ChatStore) HydrateMessages(gen uint64, msgs []Message) bool {
	applied := false
	s.mutate(func() bool {
		if gen != s.generation {
			return false
		}
		s.messages = append([]Message(nil), msgs...)
		applied = true
		return true
	})
	return applied
}

func (s *ChatStore) AppendMessage(msg Message) {
	s.mutate(func() bool {
		s.messages = append(s.messages, msg)
		return true
	})
}

// CommitReply settles a successful send: it records the backend chat id and
// appends reply, but only if the active chat has not changed since gen.
func (s *ChatStore) CommitReply(gen uint64, chatID string, reply Message) bool {
	applied := false
	s.mutate(func() bool {
		if gen != s.generation {
			return false
		}
		if s.activeChatID != chatID {
			s.activeChatID = chatID
			s.generation++
		}
		s.messages = append(s.messages, reply)
		applied = true
		return true
	})
	return applied
}

// RemoveChat drops chatID from the list; removing the active chat also resets it.
func (s *ChatStore) RemoveChat(chatID string) {
	s.mutate(func() bool {
		changed := false
		kept := s.chats[:0:0]
		for _, c := range s.chats {
			if c.ChatID == chatID {
				changed = true
				continue
			}
			kept = append(kept, c)
		}
		s.chats = kept
		if chatID != "" && chatID == s.activeChatID {
			s.resetLocked()
			changed = true
		}
		return changed
	})
}

// ClearAll empties the chat list and the transcript.
func (s *ChatStore) ClearAll() {
	s.mutate(func() bool {
		s.chats = nil
		s.resetLocked()
		return true
	})
}

// TryBeginSend sets pending and returns true unless a send is already pending.
func (s *ChatStore) TryBeginSend() bool {
	ok := false
	s.mutate(func() bool {
		if s.pending {
			return false
		}
		s.pending = true
		ok = true
		return true
	})
	return ok
}

func (s *ChatStore) SetPending(pending bool) {
	s.mutate(func() bool {
		if s.pending == pending {
			return false
		}
		s.pending = pending
		return true
	})
}
