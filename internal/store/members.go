package store

import (
	"slices"
	"time"
)

type memberState struct {
	byID        map[string]*ServerMember
	idsByServer map[string][]string
	idsByUser   map[string][]string
}

func (mem *memberState) reset() {
	mem.byID = make(map[string]*ServerMember)
	mem.idsByServer = make(map[string][]string)
	mem.idsByUser = make(map[string][]string)
}

func (mem *memberState) apply(action Action) bool {
	changed := mem.applyEntries(action)
	if mem.applyIndex(action) {
		changed = true
	}
	return changed
}

func (mem *memberState) applyEntries(action Action) bool {
	switch a := action.(type) {
	case InitialDataReceived:
		mem.byID = make(map[string]*ServerMember)
		for _, sp := range a.Servers {
			for _, mp := range sp.Members {
				if mp.Member == nil {
					continue
				}
				if mp.Member.ServerID == "" {
					mp.Member.ServerID = sp.Server.ID
				}
				mem.byID[mp.Member.ID] = mp.Member
			}
		}
		return true

	case MemberJoined:
		if a.Member == nil {
			return false
		}
		mem.byID[a.Member.ID] = a.Member
		return true

	case MemberProfileUpdated:
		m, ok := mem.byID[a.MemberID]
		if !ok {
			return false
		}
		next := m.clone()
		if a.DisplayName != nil {
			next.DisplayName = *a.DisplayName
		}
		if a.ProfilePicture != nil {
			next.ProfilePicture = *a.ProfilePicture
		}
		mem.byID[a.MemberID] = next
		return true
	}

	return false
}

// applyIndex maintains the server→members and user→memberships indices.
func (mem *memberState) applyIndex(action Action) bool {
	switch a := action.(type) {
	case InitialDataReceived:
		mem.idsByServer = make(map[string][]string)
		mem.idsByUser = make(map[string][]string)
		for _, sp := range a.Servers {
			for _, mp := range sp.Members {
				if mp.Member == nil {
					continue
				}
				mem.indexAppend(mem.idsByServer, mp.Member.ServerID, mp.Member.ID)
				mem.indexAppend(mem.idsByUser, mp.Member.UserID, mp.Member.ID)
			}
		}
		return true

	case MemberJoined:
		if a.Member == nil {
			return false
		}
		changed := mem.indexAppend(mem.idsByServer, a.Member.ServerID, a.Member.ID)
		if mem.indexAppend(mem.idsByUser, a.Member.UserID, a.Member.ID) {
			changed = true
		}
		return changed
	}

	return false
}

func (mem *memberState) indexAppend(index map[string][]string, parentID, memberID string) bool {
	ids := index[parentID]
	if slices.Contains(ids, memberID) {
		return false
	}
	index[parentID] = append(ids, memberID)
	return true
}

// MemberView is the resolved author/roster record handed to the UI. For a
// server member the per-server display name and picture override the
// user's global ones when non-empty. Bare users and apps share the shape:
// a bare user has no ServerID, an app author has IsApp set.
type MemberView struct {
	UserID         string
	AppID          string
	ServerID       string
	DisplayName    string
	ProfilePicture string
	Status         string
	JoinedAt       time.Time
	IsApp          bool
}

// SelectServerMember resolves a member jointly with its underlying user.
// Returns nil when either record is missing, which is routine while data
// is partially loaded.
func (s *Store) SelectServerMember(memberID string) *MemberView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectServerMember(memberID)
}

func (s *Store) selectServerMember(memberID string) *MemberView {
	member, ok := s.state.members.byID[memberID]
	if !ok {
		return nil
	}
	user := s.state.users[member.UserID]
	if user == nil {
		return nil
	}

	if cached, ok := s.caches.member.lookup(memberID, member, user); ok {
		return cached
	}

	view := &MemberView{
		UserID:         user.ID,
		ServerID:       member.ServerID,
		DisplayName:    user.DisplayName,
		ProfilePicture: user.ProfilePicture,
		Status:         user.Status,
		JoinedAt:       member.JoinedAt,
	}
	if member.DisplayName != "" {
		view.DisplayName = member.DisplayName
	}
	if member.ProfilePicture != "" {
		view.ProfilePicture = member.ProfilePicture
	}
	s.caches.member.store(memberID, view, member, user)
	return view
}

// SelectServerMembers lists a server's resolved members in roster order,
// dropping ids that fail to resolve.
func (s *Store) SelectServerMembers(serverID string) []*MemberView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectServerMembers(serverID)
}

func (s *Store) selectServerMembers(serverID string) []*MemberView {
	ids := s.state.members.idsByServer[serverID]
	fresh := make([]*MemberView, 0, len(ids))
	for _, id := range ids {
		if view := s.selectServerMember(id); view != nil {
			fresh = append(fresh, view)
		}
	}
	return s.caches.serverMembers.coalesce(serverID, fresh)
}

// SelectUserMemberships lists one user's memberships across all servers.
func (s *Store) SelectUserMemberships(userID string) []*MemberView {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.state.members.idsByUser[userID]
	fresh := make([]*MemberView, 0, len(ids))
	for _, id := range ids {
		if view := s.selectServerMember(id); view != nil {
			fresh = append(fresh, view)
		}
	}
	return s.caches.userMemberships.coalesce(userID, fresh)
}

// SelectServerMemberWithUserID finds the member view for a user on one
// particular server, or nil when the user is not a member there.
func (s *Store) SelectServerMemberWithUserID(serverID, userID string) *MemberView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectServerMemberWithUserID(serverID, userID)
}

func (s *Store) selectServerMemberWithUserID(serverID, userID string) *MemberView {
	for _, memberID := range s.state.members.idsByUser[userID] {
		if view := s.selectServerMember(memberID); view != nil && view.ServerID == serverID {
			return view
		}
	}
	return nil
}

// SelectChannelMembers resolves a channel's membership: bare users for
// direct channels, the server roster otherwise. Unknown channels yield nil.
func (s *Store) SelectChannelMembers(channelID string) []*MemberView {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.state.channels[channelID]
	if !ok {
		return nil
	}
	if channel.Kind == "dm" || channel.Kind == "topic" {
		fresh := make([]*MemberView, 0, len(channel.MemberUserIDs))
		for _, userID := range channel.MemberUserIDs {
			if view := s.selectUser(userID); view != nil {
				fresh = append(fresh, view)
			}
		}
		return s.caches.channelMembers.coalesce(channelID, fresh)
	}
	return s.selectServerMembers(channel.ServerID)
}

// selectUser projects a bare user into a MemberView with a stable pointer.
func (s *Store) selectUser(userID string) *MemberView {
	user := s.state.users[userID]
	if user == nil {
		return nil
	}
	if cached, ok := s.caches.user.lookup(userID, user); ok {
		return cached
	}
	view := &MemberView{
		UserID:         user.ID,
		DisplayName:    user.DisplayName,
		ProfilePicture: user.ProfilePicture,
		Status:         user.Status,
	}
	s.caches.user.store(userID, view, user)
	return view
}

// selectApp projects an app identity into a MemberView.
func (s *Store) selectApp(appID string) *MemberView {
	app := s.state.apps[appID]
	if app == nil {
		return nil
	}
	if cached, ok := s.caches.app.lookup(appID, app); ok {
		return cached
	}
	view := &MemberView{
		AppID:          app.ID,
		DisplayName:    app.Name,
		ProfilePicture: app.ProfilePicture,
		IsApp:          true,
	}
	s.caches.app.store(appID, view, app)
	return view
}
