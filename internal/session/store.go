package session

import (
	"strconv"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store keeps one State per chat in memory and serializes work per chat.
// Entries expire after the configured TTL of inactivity.
type Store struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[int64]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore creates a session store. Expired entries are removed by
// DeleteExpired; the cache runs no janitor of its own.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: cache.New(ttl, 0),
		locks: make(map[int64]*chatLock),
	}
}

// Get returns a copy of the chat's state. A chat with nothing stored gets an
// empty State.
func (s *Store) Get(chatID int64) *State {
	x, found := s.cache.Get(key(chatID))
	if !found {
		return &State{}
	}
	return x.(*State).Clone()
}

// Put stores a copy of st for the chat and refreshes its expiry.
// An empty state removes the entry.
func (s *Store) Put(chatID int64, st *State) {
	if st.Empty() {
		s.Remove(chatID)
		return
	}
	s.cache.Set(key(chatID), st.Clone(), cache.DefaultExpiration)
}

// Remove drops everything held for the chat.
func (s *Store) Remove(chatID int64) {
	s.cache.Delete(key(chatID))
}

// DeleteExpired drops all states past their TTL and reports the entry
// counts before and after the sweep.
func (s *Store) DeleteExpired() (before, after int) {
	before = s.count()
	s.cache.DeleteExpired()
	return before, s.count()
}

// count includes expired states not yet swept.
func (s *Store) count() int {
	return s.cache.ItemCount()
}

// Lock acquires the chat's mutex and returns its release func.
// Locks for different chats never contend.
func (s *Store) Lock(chatID int64) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[chatID]
	if !ok {
		l = &chatLock{}
		s.locks[chatID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, chatID)
		}
		s.mu.Unlock()
	}
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
