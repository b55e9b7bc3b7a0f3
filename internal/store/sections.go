package store

import (
	"slices"
	"sort"
)

type sectionState struct {
	byID  map[string]*ChannelSection
	order []string
}

func (sec *sectionState) reset() {
	sec.byID = make(map[string]*ChannelSection)
	sec.order = nil
}

// apply is the channel-section entity-table reducer. Sections arrive only
// with the initial sync; order preserves payload order so that position
// ties sort deterministically.
func (sec *sectionState) apply(action Action) bool {
	a, ok := action.(InitialDataReceived)
	if !ok {
		return false
	}
	sec.byID = make(map[string]*ChannelSection)
	sec.order = nil
	for _, sp := range a.Servers {
		for _, section := range sp.Sections {
			if section.ServerID == "" {
				section.ServerID = sp.Server.ID
			}
			if _, seen := sec.byID[section.ID]; !seen {
				sec.order = append(sec.order, section.ID)
			}
			sec.byID[section.ID] = section
		}
	}
	return true
}

// SectionView is the UI-facing projection of a channel section.
type SectionView struct {
	ID         string
	Name       string
	Position   int
	ChannelIDs []string
}

// SelectServerChannelSections lists a server's sections ordered by
// position. The sort is stable: equal positions keep their original
// relative order. Slice identity is preserved while contents are
// unchanged.
func (s *Store) SelectServerChannelSections(serverID string) []*SectionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectServerChannelSections(serverID)
}

func (s *Store) selectServerChannelSections(serverID string) []*SectionView {
	var fresh []*SectionView
	for _, id := range s.state.sections.order {
		section := s.state.sections.byID[id]
		if section == nil || section.ServerID != serverID {
			continue
		}
		fresh = append(fresh, s.selectSection(section))
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Position < fresh[j].Position
	})
	return s.caches.serverSections.coalesce(serverID, fresh)
}

func (s *Store) selectSection(section *ChannelSection) *SectionView {
	if cached, ok := s.caches.section.lookup(section.ID, section); ok {
		return cached
	}
	view := &SectionView{
		ID:         section.ID,
		Name:       section.Name,
		Position:   section.Position,
		ChannelIDs: section.ChannelIDs,
	}
	s.caches.section.store(section.ID, view, section)
	return view
}

// SelectChannelSection finds the section containing the given channel, or
// nil when the channel is unknown or unsectioned.
func (s *Store) SelectChannelSection(channelID string) *SectionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	channel, ok := s.state.channels[channelID]
	if !ok {
		return nil
	}
	for _, section := range s.selectServerChannelSections(channel.ServerID) {
		if slices.Contains(section.ChannelIDs, channelID) {
			return section
		}
	}
	return nil
}
