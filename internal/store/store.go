package store

import "sync"

// Store is the single mutable root holding the client's replica of
// server-authoritative chat data. All mutation is funneled through
// Dispatch, all reads through the Select* methods. One mutex serializes
// both, giving the action-at-a-time model: no reducer application is ever
// interleaved with another action or with a read.
type Store struct {
	mu      sync.Mutex
	state   state
	caches  caches
	changed chan struct{}
}

type state struct {
	user      *User
	users     map[string]*User
	apps      map[string]*App
	servers   map[string]*Server
	serverIDs []string
	channels  map[string]*Channel
	messages  messageState
	members   memberState
	sections  sectionState
}

type caches struct {
	user            *recordCache[string, *MemberView]
	app             *recordCache[string, *MemberView]
	member          *recordCache[string, *MemberView]
	message         *recordCache[string, *ResolvedMessage]
	section         *recordCache[string, *SectionView]
	channelMessages *listCache[string, *ResolvedMessage]
	serverMembers   *listCache[string, *MemberView]
	userMemberships *listCache[string, *MemberView]
	channelMembers  *listCache[string, *MemberView]
	serverSections  *listCache[string, *SectionView]
}

// Cache sizing mirrors the original client: roughly one entry per visible
// record, with generous headroom before the wholesale flush kicks in.
const recordCacheSize = 1000

// New returns an empty, ready-to-use store.
func New() *Store {
	s := &Store{changed: make(chan struct{}, 1)}
	s.state.reset()
	s.caches = caches{
		user:            newRecordCache[string, *MemberView](recordCacheSize),
		app:             newRecordCache[string, *MemberView](recordCacheSize),
		member:          newRecordCache[string, *MemberView](recordCacheSize),
		message:         newRecordCache[string, *ResolvedMessage](recordCacheSize),
		section:         newRecordCache[string, *SectionView](recordCacheSize),
		channelMessages: newListCache[string, *ResolvedMessage](),
		serverMembers:   newListCache[string, *MemberView](),
		userMemberships: newListCache[string, *MemberView](),
		channelMembers:  newListCache[string, *MemberView](),
		serverSections:  newListCache[string, *SectionView](),
	}
	return s
}

func (st *state) reset() {
	st.user = nil
	st.users = make(map[string]*User)
	st.apps = make(map[string]*App)
	st.servers = make(map[string]*Server)
	st.serverIDs = nil
	st.channels = make(map[string]*Channel)
	st.messages.reset()
	st.members.reset()
	st.sections.reset()
}

// Dispatch applies one action: directory and entity tables first, then the
// secondary indices (which may read the just-updated tables), atomically
// under the store lock. Reducers never fail; actions referencing unknown
// entities reduce to no-ops. Listeners on Changes are notified only when
// some table actually changed.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()

	if _, ok := action.(Logout); ok {
		s.state.reset()
		s.resetCaches()
		s.mu.Unlock()
		s.notify()
		return
	}

	changed := s.state.applyDirectory(action)
	if s.state.messages.apply(action) {
		changed = true
	}
	if s.state.members.apply(action) {
		changed = true
	}
	if s.state.sections.apply(action) {
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Changes returns a coalescing notification channel: at least one value is
// readable after any state-changing dispatch. The UI blocks on it instead
// of polling at a fixed cadence, since gateway pushes are bursty.
func (s *Store) Changes() <-chan struct{} {
	return s.changed
}

func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

func (s *Store) resetCaches() {
	s.caches.user.reset()
	s.caches.app.reset()
	s.caches.member.reset()
	s.caches.message.reset()
	s.caches.section.reset()
	s.caches.channelMessages.reset()
	s.caches.serverMembers.reset()
	s.caches.userMemberships.reset()
	s.caches.channelMembers.reset()
	s.caches.serverSections.reset()
}

// LoggedInUser returns the authenticated user, or nil before initial sync.
func (s *Store) LoggedInUser() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.user
}

// SelectServers lists the user's servers in initial-sync order.
func (s *Store) SelectServers() []*Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Server, 0, len(s.state.serverIDs))
	for _, id := range s.state.serverIDs {
		if server := s.state.servers[id]; server != nil {
			out = append(out, server)
		}
	}
	return out
}

// SelectChannel returns the raw channel record, or nil when unknown.
func (s *Store) SelectChannel(channelID string) *Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.channels[channelID]
}
