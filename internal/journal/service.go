package journal

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/habitcheck/internal/badges"
	"github.com/abhisek/habitcheck/internal/dates"
	"github.com/abhisek/habitcheck/internal/logger"
	"github.com/abhisek/habitcheck/internal/notes"
	"github.com/abhisek/habitcheck/internal/protocol"
	"github.com/abhisek/habitcheck/internal/quotes"
	"github.com/abhisek/habitcheck/internal/snapshot"
	"github.com/abhisek/habitcheck/internal/store"
	"github.com/abhisek/habitcheck/internal/tracker"
)

var (
	ErrTrackerNotFound = errors.New("tracker not found")
	ErrRunNotFound     = errors.New("recovery run not found")
	ErrRunCompleted    = errors.New("recovery run already completed")
	ErrInvalidDate     = errors.New("invalid date")
	ErrFutureDate      = errors.New("date is in the future")
)

// Options tunes a Service. Zero values pick defaults.
type Options struct {
	SnapshotKeep    int
	RecoveryMinutes int
	Logger          *logger.Logger
	Now             func() time.Time
	Rand            quotes.Rand
}

// Service owns the in-memory state and persists every change. After each
// mutation the engine is re-run over the whole state and any newly earned
// badges are recorded before saving.
type Service struct {
	mu    sync.Mutex
	snaps store.SnapshotRepo
	prefs store.PrefRepo
	log   *logger.Logger
	now   func() time.Time
	rnd   quotes.Rand

	keep            int
	recoveryMinutes int

	data snapshot.Data
}

// NewService creates a Service. Call Load before use.
func NewService(snaps store.SnapshotRepo, prefs store.PrefRepo, opts Options) *Service {
	s := &Service{
		snaps:           snaps,
		prefs:           prefs,
		log:             opts.Logger,
		now:             opts.Now,
		rnd:             opts.Rand,
		keep:            opts.SnapshotKeep,
		recoveryMinutes: opts.RecoveryMinutes,
		data:            snapshot.Empty(),
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	if s.keep <= 0 {
		s.keep = 20
	}
	if s.recoveryMinutes <= 0 {
		s.recoveryMinutes = protocol.DefaultDurationMinutes
	}
	return s
}

// Awarded lists badges earned by a mutation.
type Awarded struct {
	Tracker []badges.Badge
	Global  []badges.Badge
}

// All returns tracker and global badges together.
func (a Awarded) All() []badges.Badge {
	out := make([]badges.Badge, 0, len(a.Tracker)+len(a.Global))
	out = append(out, a.Tracker...)
	return append(out, a.Global...)
}

// Load reads the latest snapshot, or starts empty.
func (s *Service) Load(ctx context.Context) error {
	snap, err := s.snaps.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		s.data = snapshot.Empty()
		s.log.Debug("no saved state, starting empty")
		return nil
	}
	s.data = snap.Data
	s.log.Debug("state loaded", "sequence", snap.Sequence, "trackers", len(s.data.Trackers))
	return nil
}

// Data returns a copy of the current state.
func (s *Service) Data() snapshot.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Today returns the current local day.
func (s *Service) Today() time.Time {
	return dates.Parse(dates.Today(s.now()))
}

// ActiveTracker returns the tracker shown by default.
func (s *Service) ActiveTracker() (tracker.Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Active()
}

// Resolve returns the tracker with id, or the active tracker when id is
// empty. A case-insensitive name match is accepted as well.
func (s *Service) Resolve(id string) (tracker.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(s.data, id)
}

func (s *Service) resolve(d snapshot.Data, id string) (tracker.Tracker, error) {
	if id == "" {
		if t, ok := d.Active(); ok {
			return t, nil
		}
		return tracker.Tracker{}, ErrTrackerNotFound
	}
	if t, _, ok := d.Tracker(id); ok {
		return t, nil
	}
	for _, t := range d.Trackers {
		if strings.EqualFold(t.Name, id) {
			return t, nil
		}
	}
	return tracker.Tracker{}, fmt.Errorf("%w: %s", ErrTrackerNotFound, id)
}

// AddTracker creates a tracker and makes it active.
func (s *Service) AddTracker(ctx context.Context, name string) (tracker.Tracker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	t := tracker.New(name)
	next.Trackers = append(next.Trackers, t)
	next.Entries[t.ID] = []tracker.Entry{}
	next.ActiveTrackerID = t.ID

	if _, err := s.commit(ctx, next); err != nil {
		return tracker.Tracker{}, err
	}
	s.log.Info("tracker added", "tracker", t.ID, "name", t.Name)
	return t, nil
}

// UpdateTracker replaces the stored tracker with the same ID.
func (s *Service) UpdateTracker(ctx context.Context, t tracker.Tracker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	_, idx, ok := next.Tracker(t.ID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrackerNotFound, t.ID)
	}
	t.Name = tracker.CleanName(t.Name)
	next.Trackers[idx] = t
	_, err := s.commit(ctx, next)
	return err
}

// RemoveTracker deletes a tracker with its entries, runs and badges.
func (s *Service) RemoveTracker(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	_, idx, ok := next.Tracker(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTrackerNotFound, id)
	}
	next.Trackers = append(next.Trackers[:idx], next.Trackers[idx+1:]...)
	delete(next.Entries, id)
	delete(next.Badges.Trackers, id)
	runs := next.ProtocolRuns[:0]
	for _, r := range next.ProtocolRuns {
		if r.TrackerID != id {
			runs = append(runs, r)
		}
	}
	next.ProtocolRuns = runs
	if next.ActiveTrackerID == id {
		next.ActiveTrackerID = ""
		if len(next.Trackers) > 0 {
			next.ActiveTrackerID = next.Trackers[0].ID
		}
	}

	if _, err := s.commit(ctx, next); err != nil {
		return err
	}
	s.log.Info("tracker removed", "tracker", id)
	return nil
}

// SwitchTracker makes id the active tracker.
func (s *Service) SwitchTracker(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, ok := s.data.Tracker(id); !ok {
		return fmt.Errorf("%w: %s", ErrTrackerNotFound, id)
	}
	next := s.data.Clone()
	next.ActiveTrackerID = id
	_, err := s.commit(ctx, next)
	return err
}

// LogDay records status for date (a day key; empty means today). A later
// log for the same day replaces the earlier status. A non-empty note is
// appended to the day's notes.
func (s *Service) LogDay(ctx context.Context, trackerID, date string, status tracker.Status, note string) (Awarded, error) {
	if !status.Valid() {
		return Awarded{}, fmt.Errorf("%w: %q", tracker.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(s.data, trackerID)
	if err != nil {
		return Awarded{}, err
	}
	key, err := s.dayKey(date)
	if err != nil {
		return Awarded{}, err
	}

	next := s.data.Clone()
	entries := next.Entries[t.ID]
	prev, _ := tracker.Find(entries, key)
	e := tracker.Entry{Date: key, Status: status, Note: prev.Note, UpdatedAt: s.now().UnixMilli()}
	if strings.TrimSpace(note) != "" {
		e.Note = notes.Append(prev.Note, note, s.now())
	}
	next.Entries[t.ID] = tracker.Upsert(entries, e)

	awarded, err := s.commit(ctx, next)
	if err != nil {
		return Awarded{}, err
	}
	s.log.Info("day logged", "tracker", t.ID, "date", key, "status", status)
	return awarded, nil
}

// AddNote appends a note to an already logged day.
func (s *Service) AddNote(ctx context.Context, trackerID, date, text string) error {
	return s.editNotes(ctx, trackerID, date, func(value string) string {
		return notes.Append(value, text, s.now())
	})
}

// RemoveNote deletes one note from a logged day.
func (s *Service) RemoveNote(ctx context.Context, trackerID, date string, n notes.Note) error {
	return s.editNotes(ctx, trackerID, date, func(value string) string {
		return notes.Remove(value, n)
	})
}

func (s *Service) editNotes(ctx context.Context, trackerID, date string, edit func(string) string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(s.data, trackerID)
	if err != nil {
		return err
	}
	key, err := s.dayKey(date)
	if err != nil {
		return err
	}
	next := s.data.Clone()
	e, ok := tracker.Find(next.Entries[t.ID], key)
	if !ok {
		return fmt.Errorf("no entry for %s", key)
	}
	e.Note = edit(e.Note)
	e.UpdatedAt = s.now().UnixMilli()
	next.Entries[t.ID] = tracker.Upsert(next.Entries[t.ID], e)
	_, err = s.commit(ctx, next)
	return err
}

// ClearDay removes the entry for date. Earned badges are kept.
func (s *Service) ClearDay(ctx context.Context, trackerID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(s.data, trackerID)
	if err != nil {
		return err
	}
	key, err := s.dayKey(date)
	if err != nil {
		return err
	}
	next := s.data.Clone()
	next.Entries[t.ID] = tracker.Remove(next.Entries[t.ID], key)
	_, err = s.commit(ctx, next)
	return err
}

// StartRecovery opens a recovery run for the tracker.
func (s *Service) StartRecovery(ctx context.Context, trackerID string) (protocol.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(s.data, trackerID)
	if err != nil {
		return protocol.Run{}, err
	}
	run := protocol.CreateRun(t.ID, s.recoveryMinutes, s.now())
	next := s.data.Clone()
	next.ProtocolRuns = append(next.ProtocolRuns, run)
	if _, err := s.commit(ctx, next); err != nil {
		return protocol.Run{}, err
	}
	s.log.Info("recovery started", "tracker", t.ID, "run", run.ID)
	return run, nil
}

// CompleteRecovery finishes a run. A run can only be completed once.
func (s *Service) CompleteRecovery(ctx context.Context, runID string, completedSteps int) (protocol.Run, Awarded, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	run, idx, ok := protocol.Find(next.ProtocolRuns, runID)
	if !ok {
		return protocol.Run{}, Awarded{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if run.Completed() {
		return protocol.Run{}, Awarded{}, ErrRunCompleted
	}
	run = protocol.CompleteRun(run, completedSteps, s.now())
	next.ProtocolRuns[idx] = run

	awarded, err := s.commit(ctx, next)
	if err != nil {
		return protocol.Run{}, Awarded{}, err
	}
	s.log.Info("recovery completed", "tracker", run.TrackerID, "run", run.ID, "steps", run.CompletedSteps)
	return run, awarded, nil
}

// OpenRun returns the most recent unfinished run for the tracker (empty id
// means active), if any.
func (s *Service) OpenRun(trackerID string) (protocol.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.resolve(s.data, trackerID)
	if err != nil {
		return protocol.Run{}, false
	}
	runs := s.data.RunsFor(t.ID)
	for i := len(runs) - 1; i >= 0; i-- {
		if runs[i].Abandoned() {
			return runs[i], true
		}
	}
	return protocol.Run{}, false
}

// UpdateSettings applies fn to the app settings and saves.
func (s *Service) UpdateSettings(ctx context.Context, fn func(*snapshot.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	fn(&next.Settings)
	if next.Settings.Theme != snapshot.ThemeDark {
		next.Settings.Theme = snapshot.ThemeLight
	}
	_, err := s.commit(ctx, next)
	return err
}

// Import replaces the state with a backup file. On failure the current state
// is left untouched.
func (s *Service) Import(ctx context.Context, raw []byte) (Awarded, error) {
	imported, err := snapshot.ParseBackup(raw)
	if err != nil {
		s.log.Warn("import rejected", "error", err)
		return Awarded{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	awarded, err := s.commit(ctx, imported)
	if err != nil {
		return Awarded{}, err
	}
	s.log.Info("backup imported", "trackers", len(imported.Trackers))
	return awarded, nil
}

// Export serializes the current state in the backup format.
func (s *Service) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot.Encode(s.data)
}

// Reset wipes all trackers, entries, runs and badges.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.commit(ctx, snapshot.Empty()); err != nil {
		return err
	}
	s.log.Info("state reset")
	return nil
}

// NextQuote draws the next quote from the persisted shuffle bag.
func (s *Service) NextQuote(ctx context.Context) (string, error) {
	all := quotes.All()
	raw, _, err := s.prefs.Get(ctx, store.PrefQuoteBag)
	if err != nil {
		return "", err
	}
	idx, bag := quotes.Draw(quotes.DecodeBag(raw, len(all)), len(all), s.rnd)
	if err := s.prefs.Set(ctx, store.PrefQuoteBag, quotes.EncodeBag(bag)); err != nil {
		return "", err
	}
	return all[idx], nil
}

// OnboardingComplete reports whether the welcome flow was finished.
func (s *Service) OnboardingComplete(ctx context.Context) (bool, error) {
	v, _, err := s.prefs.Get(ctx, store.PrefOnboardingComplete)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetOnboardingComplete records the welcome flow state.
func (s *Service) SetOnboardingComplete(ctx context.Context, done bool) error {
	return s.prefs.Set(ctx, store.PrefOnboardingComplete, fmt.Sprintf("%t", done))
}

// dayKey validates a day key; empty means today. Future days are rejected.
func (s *Service) dayKey(date string) (string, error) {
	today := dates.Today(s.now())
	if date == "" {
		return today, nil
	}
	if !dates.Valid(date) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if date > today {
		return "", fmt.Errorf("%w: %s", ErrFutureDate, date)
	}
	return date, nil
}

// commit awards badges on next, persists it and only then makes it current.
// Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next snapshot.Data) (Awarded, error) {
	awarded := s.award(&next)

	snap := &store.Snapshot{Timestamp: s.now(), Data: next}
	if err := s.snaps.Save(ctx, snap); err != nil {
		return Awarded{}, fmt.Errorf("save state: %w", err)
	}
	if err := s.snaps.Prune(ctx, s.keep); err != nil {
		s.log.Warn("prune snapshots failed", "error", err)
	}
	s.data = next

	for _, b := range awarded.All() {
		s.log.Info("badge earned", "badge", b.ID)
	}
	return awarded, nil
}

func (s *Service) award(d *snapshot.Data) Awarded {
	today := s.Today()
	var out Awarded

	if d.Badges.Trackers == nil {
		d.Badges.Trackers = map[string][]badges.Badge{}
	}
	trackerDefs := badges.Definitions(badges.ScopeTracker)
	for _, t := range d.Trackers {
		bctx := badges.BuildContext(d.Entries[t.ID], d.RunsFor(t.ID), today)
		res := badges.Award(d.Badges.Trackers[t.ID], trackerDefs, bctx, today)
		d.Badges.Trackers[t.ID] = res.Updated
		out.Tracker = append(out.Tracker, res.NewlyEarned...)
	}

	gctx := badges.BuildGlobalContext(d.Groups(), today)
	res := badges.Award(d.Badges.Global, badges.Definitions(badges.ScopeGlobal), gctx, today)
	d.Badges.Global = res.Updated
	out.Global = res.NewlyEarned
	return out
}
