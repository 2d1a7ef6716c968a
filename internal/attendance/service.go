package attendance

import (
	"sync"
	"time"

	"github.com/iLeonidze/tg-attendances-bot/internal/models"
	"github.com/iLeonidze/tg-attendances-bot/internal/roster"
	"github.com/iLeonidze/tg-attendances-bot/internal/utils"
	"github.com/iLeonidze/tg-attendances-bot/logging"
)

// Service owns the roster and the in-memory attendance state and mediates
// every mutation through the configured store.
type Service struct {
	store  Store
	mtx    sync.Mutex
	roster *roster.Roster
	data   models.AttendanceData
	dirty  bool
	now    func() time.Time
}

func NewService(store Store, initialRoster *roster.Roster) (*Service, error) {
	data, err := store.Load()
	if err != nil {
		return nil, err
	}
	if initialRoster == nil {
		initialRoster = roster.Empty()
	}
	return &Service{
		store:  store,
		roster: initialRoster,
		data:   data,
		now:    time.Now,
	}, nil
}

func (s *Service) SetRoster(r *roster.Roster) {
	s.mtx.Lock()
	s.roster = r
	s.mtx.Unlock()
}

func (s *Service) Roster() *roster.Roster {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.roster
}

func (s *Service) Groups() []string {
	return s.Roster().Groups()
}

func (s *Service) Children(group string) []string {
	return s.Roster().Children(group)
}

func (s *Service) CurrentDay() string {
	return utils.DayKey(s.now())
}

// Present returns a copy of the present-children set for the day and group.
func (s *Service) Present(day string, group string) models.ChildSet {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	set := s.data.Present(day, group)
	copied := make(models.ChildSet, len(set))
	for child := range set {
		copied[child] = struct{}{}
	}
	return copied
}

func (s *Service) HasAttendance() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return !s.data.Empty()
}

func (s *Service) Mark(day string, group string, child string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.markLocked(day, group, child)
}

func (s *Service) Unmark(day string, group string, child string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.unmarkLocked(day, group, child)
}

// Toggle flips the presence of a child and reports the resulting state.
func (s *Service) Toggle(day string, group string, child string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.data.Present(day, group).Has(child) {
		if err := s.unmarkLocked(day, group, child); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.markLocked(day, group, child); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) markLocked(day string, group string, child string) error {
	if !s.roster.HasChild(group, child) {
		logging.Logger.Warnw("attempted to mark attendance for unknown group/child",
			"group", group, "child", child)
		return nil
	}
	s.data.Mark(day, group, child)
	s.dirty = true
	logging.Logger.Debugw("marked present", "child", child, "group", group, "day", day)
	return s.store.Mark(day, group, child)
}

func (s *Service) unmarkLocked(day string, group string, child string) error {
	s.data.Unmark(day, group, child)
	s.dirty = true
	logging.Logger.Debugw("marked absent", "child", child, "group", group, "day", day)
	return s.store.Unmark(day, group, child)
}

// Flush persists the current snapshot unconditionally.
func (s *Service) Flush() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.flushLocked()
}

// AutoFlush persists the snapshot only when there are unsaved changes. Used
// by the periodic flusher.
func (s *Service) AutoFlush() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.dirty {
		return nil
	}
	return s.flushLocked()
}

func (s *Service) flushLocked() error {
	if err := s.store.Flush(s.data); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// PurgeStale removes attendance rows referring to groups absent from the
// roster, or to children absent from their group. It returns the number of
// distinct groups and children removed.
func (s *Service) PurgeStale() (int, int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	staleGroups := map[string]struct{}{}
	staleChildren := map[string]struct{}{}
	for day, groups := range s.data {
		for group, set := range groups {
			if !s.roster.HasGroup(group) {
				for child := range set {
					if err := s.store.Unmark(day, group, child); err != nil {
						return 0, 0, err
					}
				}
				staleGroups[group] = struct{}{}
				delete(groups, group)
				continue
			}
			for child := range set {
				if !s.roster.HasChild(group, child) {
					if err := s.store.Unmark(day, group, child); err != nil {
						return 0, 0, err
					}
					staleChildren[group+"/"+child] = struct{}{}
					set.Remove(child)
				}
			}
		}
	}
	if len(staleGroups) > 0 || len(staleChildren) > 0 {
		s.dirty = true
		if err := s.flushLocked(); err != nil {
			return len(staleGroups), len(staleChildren), err
		}
		logging.Logger.Infow("stale attendance entries purged",
			"groups", len(staleGroups), "children", len(staleChildren))
	}
	return len(staleGroups), len(staleChildren), nil
}

// RecordedDays lists, oldest first, the day keys within the `days` day window
// ending today that carry at least one presence mark.
func (s *Service) RecordedDays(days int) []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	recorded := make([]string, 0)
	for _, key := range utils.DayKeysBack(s.now(), days) {
		if s.data.HasMarks(key) {
			recorded = append(recorded, key)
		}
	}
	return recorded
}

// Snapshot returns a deep copy safe for report generation outside the lock.
func (s *Service) Snapshot() models.AttendanceData {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.data.Clone()
}
