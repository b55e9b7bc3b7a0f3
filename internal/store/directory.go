package store

// applyDirectory maintains the supporting lookup tables — users, apps,
// servers, channels — the selectors join against. These are plain keyed
// records with no secondary indices of their own.
func (st *state) applyDirectory(action Action) bool {
	switch a := action.(type) {
	case InitialDataReceived:
		// Bulk load replaces the tables wholesale: a re-sync must not
		// leave records from the previous session behind.
		st.users = make(map[string]*User)
		st.apps = make(map[string]*App)
		st.servers = make(map[string]*Server)
		st.serverIDs = nil
		st.channels = make(map[string]*Channel)

		st.user = a.User
		if a.User != nil {
			st.users[a.User.ID] = a.User
		}
		for _, app := range a.Apps {
			st.apps[app.ID] = app
		}
		for _, sp := range a.Servers {
			server := sp.Server
			st.servers[server.ID] = &server
			st.serverIDs = append(st.serverIDs, server.ID)
			for _, ch := range sp.Channels {
				if ch.ServerID == "" {
					ch.ServerID = server.ID
				}
				st.channels[ch.ID] = ch
			}
			for _, mp := range sp.Members {
				if mp.User != nil {
					st.users[mp.User.ID] = mp.User
				}
			}
		}
		return true

	case MemberJoined:
		if a.User == nil {
			return false
		}
		st.users[a.User.ID] = a.User
		return true
	}

	return false
}
