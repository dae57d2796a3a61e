package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"

	"github.com/tasknap/tasknap/internal/event"
	"github.com/tasknap/tasknap/internal/journal"
	"github.com/tasknap/tasknap/internal/power"
	"github.com/tasknap/tasknap/pkg/logger"
)

const maxSleepCap = 60 * time.Second

const toastTimeLayout = "Jan 2 15:04:05"

// Toast titles emitted by the scheduler. The server's notifier keys
// push-update kinds off these, so treat them as part of the surface.
const (
	ToastTitleScheduled = "Task scheduled"
	ToastTitleImminent  = "Task imminent"
	ToastTitleExecuted  = "Task executed"
	ToastTitleCanceled  = "Task canceled"
	ToastTitleFailed    = "Task failed"
)

// ErrBadRecurrence is returned for malformed or never-firing
// recurrence expressions.
var ErrBadRecurrence = errors.New("invalid recurrence expression")

// Deps are the collaborators a Scheduler drives. Nil fields get
// working defaults: a fresh registry, the real OS executor, a silent
// notifier, a discarding journal, and a config that keeps
// notifications off.
type Deps struct {
	Registry *event.Registry
	Executor Executor
	Notifier Notifier
	Journal  Journal
	Config   Config
	Log      logger.Logger
}

// Scheduler fires power events at their trigger times. All event state
// is owned by the run goroutine; the exported methods are thin
// channel-based requests against it.
type Scheduler struct {
	ctx context.Context

	scheduleChan  chan scheduleRequest
	triggerChan   chan triggerRequest
	cancelChan    chan cancelRequest
	cancelAllChan chan cancelAllRequest
	listChan      chan listRequest
	pendingChan   chan pendingRequest
	lenChan       chan lenRequest

	reg      *event.Registry
	executor Executor
	notifier Notifier
	journal  Journal
	cfg      Config
	log      logger.Logger
}

// New creates and starts a Scheduler. The run goroutine exits when ctx
// is cancelled; requests made after that report ctx.Err().
func New(ctx context.Context, deps Deps) *Scheduler {
	if deps.Registry == nil {
		deps.Registry = event.NewRegistry()
	}
	if deps.Executor == nil {
		deps.Executor = power.NewExecutor()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Journal == nil {
		deps.Journal = nopJournal{}
	}
	if deps.Config == nil {
		deps.Config = defaultConfig{}
	}
	if deps.Log == nil {
		deps.Log = logger.NewNopLogger()
	}
	s := &Scheduler{
		ctx:           ctx,
		scheduleChan:  make(chan scheduleRequest),
		triggerChan:   make(chan triggerRequest),
		cancelChan:    make(chan cancelRequest),
		cancelAllChan: make(chan cancelAllRequest),
		listChan:      make(chan listRequest),
		pendingChan:   make(chan pendingRequest),
		lenChan:       make(chan lenRequest),
		reg:           deps.Registry,
		executor:      deps.Executor,
		notifier:      deps.Notifier,
		journal:       deps.Journal,
		cfg:           deps.Config,
		log:           deps.Log,
	}
	go s.run()
	return s
}

// Schedule arms a new event for the given trigger time. firesAt must
// be strictly in the future. A non-empty every is a 5-field cron
// expression; after the event executes, a fresh event is armed at the
// next occurrence.
func (s *Scheduler) Schedule(action power.Action, firesAt time.Time, every string) (*event.Event, error) {
	if every != "" {
		if err := ValidateEvery(every); err != nil {
			return nil, err
		}
	}
	req := scheduleRequest{
		action:  action,
		firesAt: firesAt,
		every:   every,
		reply:   make(chan scheduleResult, 1),
	}
	select {
	case s.scheduleChan <- req:
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.ev, res.err
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
}

// TriggerNow arms an event firing immediately, bypassing the
// future-time validation. The event still goes through the normal fire
// path, so an enabled pre-notification countdown runs first. This is
// the idle watchdog's entry point.
func (s *Scheduler) TriggerNow(action power.Action) (*event.Event, error) {
	req := triggerRequest{action: action, reply: make(chan scheduleResult, 1)}
	select {
	case s.triggerChan <- req:
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res.ev, res.err
	case <-s.ctx.Done():
		return nil, s.ctx.Err()
	}
}

// Cancel cancels the pending event with the given id. Returns
// event.ErrNotFound when the id names no pending event, which callers
// report rather than treat as fatal.
func (s *Scheduler) Cancel(id int64) error {
	req := cancelRequest{id: id, reply: make(chan error, 1)}
	select {
	case s.cancelChan <- req:
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// CancelAll cancels every pending event and returns how many it
// canceled. An empty queue cancels zero without error.
func (s *Scheduler) CancelAll() int {
	req := cancelAllRequest{reply: make(chan int, 1)}
	select {
	case s.cancelAllChan <- req:
	case <-s.ctx.Done():
		return 0
	}
	select {
	case n := <-req.reply:
		return n
	case <-s.ctx.Done():
		return 0
	}
}

// List returns a snapshot of all pending events ordered by trigger
// time.
func (s *Scheduler) List() []event.Event {
	req := listRequest{reply: make(chan []event.Event, 1)}
	select {
	case s.listChan <- req:
	case <-s.ctx.Done():
		return nil
	}
	select {
	case evs := <-req.reply:
		return evs
	case <-s.ctx.Done():
		return nil
	}
}

// Pending reports whether the event with the given id is still
// pending. The watchdog uses this for duplicate suppression.
func (s *Scheduler) Pending(id int64) bool {
	req := pendingRequest{id: id, reply: make(chan bool, 1)}
	select {
	case s.pendingChan <- req:
	case <-s.ctx.Done():
		return false
	}
	select {
	case ok := <-req.reply:
		return ok
	case <-s.ctx.Done():
		return false
	}
}

// Len returns the number of pending events.
func (s *Scheduler) Len() int {
	req := lenRequest{reply: make(chan int, 1)}
	select {
	case s.lenChan <- req:
	case <-s.ctx.Done():
		return 0
	}
	select {
	case n := <-req.reply:
		return n
	case <-s.ctx.Done():
		return 0
	}
}

// run is the core scheduler goroutine implementing the active-object
// pattern. It maintains a min-heap of wake entries and sleeps with a
// 60s max-sleep-cap so wall-clock steps and system sleep are noticed
// within a minute.
func (s *Scheduler) run() {
	h := &timerHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			// No wakes pending, block indefinitely on channels
			return nil
		}
		dur := time.Until((*h)[0].wakeAt)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case req := <-s.scheduleChan:
			req.reply <- s.schedule(h, req.action, req.firesAt, req.every)
			timerCh = resetTimer()

		case req := <-s.triggerChan:
			ev := s.reg.CreateImmediate(req.action)
			s.journalAppend(ev.ID, ev.Action, journal.KindScheduled, "")
			heapPush(h, timerEntry{eventID: ev.ID, wakeAt: ev.FiresAt})
			s.log.Info("triggered %s now (event %d)", ev.Action, ev.ID)
			cp := *ev
			req.reply <- scheduleResult{ev: &cp}
			timerCh = resetTimer()

		case req := <-s.cancelChan:
			req.reply <- s.cancelEvent(h, req.id)
			timerCh = resetTimer()

		case req := <-s.cancelAllChan:
			n := 0
			for _, ev := range s.reg.ListAll() {
				if s.cancelEvent(h, ev.ID) == nil {
					n++
				}
			}
			req.reply <- n
			timerCh = resetTimer()

		case req := <-s.listChan:
			req.reply <- s.reg.ListAll()

		case req := <-s.pendingChan:
			_, ok := s.reg.Get(req.id)
			req.reply <- ok

		case req := <-s.lenChan:
			req.reply <- s.reg.Len()

		case <-timerCh:
			// Fire every wake whose time has arrived
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].wakeAt.After(now) {
				entry := heapPop(h)
				s.onWake(h, entry.eventID, now)
			}
			timerCh = resetTimer()
		}
	}
}

func (s *Scheduler) schedule(h *timerHeap, action power.Action, firesAt time.Time, every string) scheduleResult {
	ev, err := s.reg.Create(action, firesAt)
	if err != nil {
		return scheduleResult{err: err}
	}
	ev.Every = every
	heapPush(h, timerEntry{eventID: ev.ID, wakeAt: ev.FiresAt})
	s.journalAppend(ev.ID, ev.Action, journal.KindScheduled, "")
	s.notifier.ShowToast(*ev, ToastTitleScheduled, fmt.Sprintf("%s at %s", ev.Action, ev.FiresAt.Format(toastTimeLayout)))
	s.log.Info("scheduled %s (event %d) for %s", ev.Action, ev.ID, ev.FiresAt.Format(time.RFC3339))
	cp := *ev
	return scheduleResult{ev: &cp}
}

// onWake handles one fired wake entry. The event is re-read from the
// registry; entries whose event is gone belong to a cancelled or
// already-executed event and are dropped.
func (s *Scheduler) onWake(h *timerHeap, id int64, now time.Time) {
	ev, ok := s.reg.Get(id)
	if !ok {
		return
	}
	switch ev.State {
	case event.StateArmed:
		// Settings are consulted at fire time, not at schedule time
		if !s.cfg.NotifyEnabled() {
			s.execute(h, ev)
			return
		}
		lead := s.cfg.NotifyLeadSeconds()
		if lead <= 0 {
			s.execute(h, ev)
			return
		}
		ev.State = event.StatePreNotifying
		ev.Remaining = lead
		ev.Total = lead
		s.notifier.ShowToast(*ev, ToastTitleImminent, fmt.Sprintf("%s in %d seconds", ev.Action, lead))
		if s.notifier.ShowCountdown(*ev) {
			s.cancelEvent(h, ev.ID)
			return
		}
		heapPush(h, timerEntry{eventID: ev.ID, wakeAt: now.Add(time.Second)})

	case event.StatePreNotifying:
		ev.Remaining--
		if ev.Remaining <= 0 {
			s.execute(h, ev)
			return
		}
		if s.notifier.ShowCountdown(*ev) {
			s.cancelEvent(h, ev.ID)
			return
		}
		heapPush(h, timerEntry{eventID: ev.ID, wakeAt: now.Add(time.Second)})
	}
}

// execute marks the event executed and performs its action. The
// journal line is written before Perform because a successful action
// can take this process down with the rest of the machine.
func (s *Scheduler) execute(h *timerHeap, ev *event.Event) {
	ev.State = event.StateExecuted
	s.reg.Remove(ev.ID)
	s.journalAppend(ev.ID, ev.Action, journal.KindExecuted, "")
	s.notifier.ShowToast(*ev, ToastTitleExecuted, fmt.Sprintf("Performing %s", ev.Action))
	s.log.Info("executing %s (event %d)", ev.Action, ev.ID)
	if err := s.executor.Perform(ev.Action); err != nil {
		s.log.Error("perform %s: %v", ev.Action, err)
		s.journalAppend(ev.ID, ev.Action, journal.KindFailed, err.Error())
		s.notifier.ShowToast(*ev, ToastTitleFailed, fmt.Sprintf("%s: %v", ev.Action, err))
	}
	if ev.Every != "" {
		s.rearm(h, ev)
	}
}

// rearm creates a fresh event at the next cron occurrence of an
// executed recurring event. The executed event stays terminal; the
// recurrence continues under a new id.
func (s *Scheduler) rearm(h *timerHeap, prev *event.Event) {
	next, err := nextOccurrence(prev.Every, time.Now())
	if err != nil {
		s.log.Error("recurrence %q: %v", prev.Every, err)
		return
	}
	ev, err := s.reg.Create(prev.Action, next)
	if err != nil {
		s.log.Error("re-arm %s: %v", prev.Action, err)
		return
	}
	ev.Every = prev.Every
	heapPush(h, timerEntry{eventID: ev.ID, wakeAt: ev.FiresAt})
	s.journalAppend(ev.ID, ev.Action, journal.KindScheduled, "recurrence "+prev.Every)
	s.log.Info("re-armed %s (event %d) for %s", ev.Action, ev.ID, ev.FiresAt.Format(time.RFC3339))
}

// cancelEvent moves a pending event to canceled and drops its wake
// entries. Unknown ids report event.ErrNotFound.
func (s *Scheduler) cancelEvent(h *timerHeap, id int64) error {
	ev, ok := s.reg.Get(id)
	if !ok {
		return event.ErrNotFound
	}
	ev.State = event.StateCanceled
	s.reg.Remove(id)
	heapRemoveByID(h, id)
	s.journalAppend(ev.ID, ev.Action, journal.KindCanceled, "")
	s.notifier.ShowToast(*ev, ToastTitleCanceled, fmt.Sprintf("%s canceled", ev.Action))
	s.log.Info("canceled %s (event %d)", ev.Action, ev.ID)
	return nil
}

// journalAppend writes one journal line when logging is enabled.
// Journal failures are logged and otherwise swallowed; bookkeeping
// never interferes with a power action.
func (s *Scheduler) journalAppend(eventID int64, action power.Action, kind, detail string) {
	if !s.cfg.LoggingEnabled() {
		return
	}
	if err := s.journal.Append(journal.Record{
		EventID: eventID,
		Action:  string(action),
		Kind:    kind,
		Detail:  detail,
	}); err != nil {
		s.log.Warning("journal: %v", err)
	}
}

// ValidateEvery checks a recurrence expression: exactly 5 cron fields
// (minute hour day-of-month month day-of-week) with at least one
// occurrence within a year. gronx.IsValid alone also accepts 6-field
// expressions with seconds, which the wire format does not.
func ValidateEvery(expr string) error {
	if len(strings.Fields(expr)) != 5 {
		return fmt.Errorf("%w %q: expected 5-field format (minute hour day-of-month month day-of-week)", ErrBadRecurrence, expr)
	}
	if !gronx.IsValid(expr) {
		return fmt.Errorf("%w %q: expected 5-field format (minute hour day-of-month month day-of-week)", ErrBadRecurrence, expr)
	}
	if !hasOccurrenceWithinYear(expr, time.Now()) {
		return fmt.Errorf("%w %q: no occurrence within a year", ErrBadRecurrence, expr)
	}
	return nil
}

// nextOccurrence returns the next time the cron expression fires
// strictly after start.
func nextOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}

// hasOccurrenceWithinYear checks if a cron expression has any
// occurrence within 1 year from the given time.
func hasOccurrenceWithinYear(expr string, from time.Time) bool {
	next, err := nextOccurrence(expr, from)
	if err != nil {
		return false
	}
	return next.Before(from.Add(365 * 24 * time.Hour))
}

type nopNotifier struct{}

func (nopNotifier) ShowCountdown(event.Event) bool        { return false }
func (nopNotifier) ShowToast(event.Event, string, string) {}

type nopJournal struct{}

func (nopJournal) Append(journal.Record) error { return nil }

// defaultConfig stands in when no config store is injected:
// notifications off, journal on.
type defaultConfig struct{}

func (defaultConfig) NotifyEnabled() bool    { return false }
func (defaultConfig) NotifyLeadSeconds() int { return 30 }
func (defaultConfig) LoggingEnabled() bool   { return true }

var (
	_ Notifier = nopNotifier{}
	_ Journal  = nopJournal{}
	_ Config   = defaultConfig{}
)
