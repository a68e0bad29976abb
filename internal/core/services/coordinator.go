package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gsog/shoplist/internal/core/domain"
	"github.com/gsog/shoplist/internal/core/ports/driven"
	"github.com/gsog/shoplist/internal/core/ports/driving"
	"github.com/gsog/shoplist/internal/logger"
)

// Ensure Coordinator implements the interfaces.
var (
	_ driving.ListService = (*Coordinator)(nil)
	_ driving.SyncService = (*Coordinator)(nil)
)

// Coordinator keeps the entry store, the entries file and the broker in
// step. Local, remote and file-originated changes all pass through one
// mutex, so the store and the file have a single writer. Only local
// changes are published; remote ones are applied and persisted without
// being sent back.
type Coordinator struct {
	store   *EntryStore
	entries driven.EntryGateway
	channel driven.SyncChannel
	journal driven.JournalStore // optional

	// mu serialises mutation, persistence and publish.
	mu      sync.Mutex
	pending []domain.ShoppingEntry
	changed bool

	stateMu    sync.RWMutex
	state      domain.ConnectionState
	subscribed bool
	runCtx     context.Context

	listenersMu     sync.RWMutex
	changeListeners []func(domain.Change)
	noticeListeners []func(domain.Notice)
}

// NewCoordinator wires a store to its gateway and channel.
// journal may be nil.
func NewCoordinator(
	store *EntryStore,
	entries driven.EntryGateway,
	channel driven.SyncChannel,
	journal driven.JournalStore,
) *Coordinator {
	c := &Coordinator{
		store:   store,
		entries: entries,
		channel: channel,
		journal: journal,
		state:   domain.StateIdle,
	}
	store.OnChange(c.onStoreChanged)
	return c
}

// onStoreChanged consumes the store's change notification. Store mutations
// only happen under c.mu, so pending is guarded by it.
func (c *Coordinator) onStoreChanged(entries []domain.ShoppingEntry) {
	c.pending = entries
	c.changed = true
}

// OnEntriesChanged registers a listener for committed changes.
// Listeners run on the mutating goroutine and must not call mutating methods.
func (c *Coordinator) OnEntriesChanged(listener func(domain.Change)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.changeListeners = append(c.changeListeners, listener)
}

// OnNotice registers a listener for user-visible notices.
func (c *Coordinator) OnNotice(listener func(domain.Notice)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.noticeListeners = append(c.noticeListeners, listener)
}

// Load reads the entries file into the store. A missing file starts an
// empty list. The load is neither persisted back nor published.
func (c *Coordinator) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.entries.ReadEntries()
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("No entries file yet, starting with an empty list")
		entries = nil
	} else if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	c.resetPending()
	if err := c.store.ReplaceAll(entries); err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	logger.Debug("Loaded %d entries", len(c.pending))
	c.emitChange(domain.Change{Origin: domain.OriginInitial, Entries: c.pending})
	return nil
}

// AddEntry appends an entry, persists the list and publishes it.
func (c *Coordinator) AddEntry(ctx context.Context, text string) (domain.ShoppingEntry, error) {
	var added domain.ShoppingEntry
	err := c.mutate(ctx, domain.OriginLocal, func() error {
		var err error
		added, err = c.store.Add(text)
		return err
	})
	return added, err
}

// EditEntry replaces the text of an entry, persists and publishes.
func (c *Coordinator) EditEntry(ctx context.Context, id, text string) error {
	return c.mutate(ctx, domain.OriginLocal, func() error {
		return c.store.Edit(id, text)
	})
}

// DeleteEntry removes an entry, persists and publishes.
func (c *Coordinator) DeleteEntry(ctx context.Context, id string) error {
	return c.mutate(ctx, domain.OriginLocal, func() error {
		return c.store.Delete(id)
	})
}

// ToggleEntry flips an entry's checked state, persists and publishes.
func (c *Coordinator) ToggleEntry(ctx context.Context, id string) error {
	return c.mutate(ctx, domain.OriginLocal, func() error {
		return c.store.Toggle(id)
	})
}

// SetSortReverse changes the ordering and rewrites the file in the new
// order. The multiset is unchanged, so nothing is published.
func (c *Coordinator) SetSortReverse(ctx context.Context, reverse bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetPending()
	if !c.store.SetSortReverse(reverse) {
		return nil
	}
	return c.commit(ctx, domain.OriginReorder, c.pending, false)
}

// Snapshot returns the current ordered entries.
func (c *Coordinator) Snapshot() []domain.ShoppingEntry {
	return c.store.Snapshot()
}

// HandleRemote applies a list received from the broker. The list replaces
// the store and is persisted, but never published.
func (c *Coordinator) HandleRemote(ctx context.Context, msg domain.Message) error {
	if msg.Err != nil {
		c.notice(domain.NoticeWarning, "Ignored an unreadable list update from the broker", msg.Err)
		return msg.Err
	}
	if topic := c.channel.Target().Topic; topic != "" && msg.Topic != "" && msg.Topic != topic {
		logger.Debug("Ignoring message on foreign topic %q", msg.Topic)
		return nil
	}

	logger.Debug("Remote update on %q with %d entries (retained=%t)", msg.Topic, len(msg.Entries), msg.Retained)
	err := c.mutate(ctx, domain.OriginRemote, func() error {
		return c.store.ReplaceAll(msg.Entries)
	})
	if errors.Is(err, domain.ErrValidation) {
		c.notice(domain.NoticeWarning, "Ignored an invalid list update from the broker", err)
	}
	return err
}

// ReloadFromFile picks up an external edit of the entries file. Content
// equal to the current list is ignored, which also covers our own writes.
// A reload is persisted in canonical order but not published.
func (c *Coordinator) ReloadFromFile(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.entries.ReadEntries()
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		c.notice(domain.NoticeWarning, "Could not reload the entries file", err)
		return fmt.Errorf("reload entries: %w", err)
	}
	if domain.SameEntries(entries, c.store.Snapshot()) {
		return nil
	}

	c.resetPending()
	if err := c.store.ReplaceAll(entries); err != nil {
		return fmt.Errorf("reload entries: %w", err)
	}
	return c.commit(ctx, domain.OriginFile, c.pending, false)
}

// Connect opens the broker session. Failures move the coordinator to
// StateConnectionFailed and are surfaced as a notice only. A session the
// channel lost is replaced, and a subscription held on it is restored.
func (c *Coordinator) Connect(ctx context.Context) {
	c.stateMu.Lock()
	lost := c.state == domain.StateConnected && c.channel.State() == domain.StateConnectionFailed
	if (c.state == domain.StateConnected && !lost) || c.state == domain.StateConnecting {
		c.stateMu.Unlock()
		return
	}
	c.state = domain.StateConnecting
	resubscribe, runCtx := c.subscribed, c.runCtx
	c.stateMu.Unlock()

	target := c.channel.Target()
	logger.Debug("Connecting to %s", target.Address())
	if err := c.channel.Connect(ctx); err != nil {
		c.setState(domain.StateConnectionFailed)
		log.Printf("coordinator: connect to %s failed: %v", target.Address(), err)
		c.notice(domain.NoticeWarning,
			fmt.Sprintf("Could not connect to %s, the list is only saved locally", target.Host), err)
		return
	}
	c.setState(domain.StateConnected)
	logger.Info("Connected to %s, topic %q", target.Address(), target.Topic)
	if resubscribe {
		c.restoreSubscription(ctx, runCtx)
	}
}

// Reconnect closes the session, switches to target and connects again.
// An active subscription is restored on the new session.
func (c *Coordinator) Reconnect(ctx context.Context, target domain.BrokerTarget) {
	c.stateMu.RLock()
	resubscribe := c.subscribed
	runCtx := c.runCtx
	c.stateMu.RUnlock()

	c.Disconnect()
	c.channel.SetTarget(target)
	c.Connect(ctx)
	if resubscribe {
		c.restoreSubscription(ctx, runCtx)
	}
}

// restoreSubscription subscribes on a new session, on the context of the
// previous subscription while it is still live.
func (c *Coordinator) restoreSubscription(ctx, runCtx context.Context) {
	if runCtx == nil || runCtx.Err() != nil {
		runCtx = ctx
	}
	c.Start(runCtx)
}

// Start subscribes to the list topic. Received lists are applied through
// HandleRemote on the channel's delivery goroutine. Without a session it
// only records a notice.
func (c *Coordinator) Start(ctx context.Context) {
	if c.State() != domain.StateConnected {
		logger.Debug("Not connected, skipping subscribe")
		return
	}

	err := c.channel.Subscribe(ctx, func(msg domain.Message) {
		_ = c.HandleRemote(ctx, msg) //nolint:errcheck // surfaced as notices
	})
	if err != nil {
		log.Printf("coordinator: subscribe failed: %v", err)
		c.notice(domain.NoticeWarning, "Could not subscribe to list updates", err)
		return
	}

	c.stateMu.Lock()
	c.subscribed = true
	c.runCtx = ctx
	c.stateMu.Unlock()
}

// Disconnect closes the broker session and stops remote delivery.
func (c *Coordinator) Disconnect() {
	c.channel.Disconnect()

	c.stateMu.Lock()
	c.state = domain.StateIdle
	c.subscribed = false
	c.stateMu.Unlock()
}

// State returns the broker session state. A session the channel lost
// after connecting is reported as failed.
func (c *Coordinator) State() domain.ConnectionState {
	c.stateMu.RLock()
	state := c.state
	c.stateMu.RUnlock()

	if state == domain.StateConnected && c.channel.State() == domain.StateConnectionFailed {
		return domain.StateConnectionFailed
	}
	return state
}

func (c *Coordinator) setState(state domain.ConnectionState) {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	c.state = state
}

// mutate runs fn on the store under the coordinator lock and commits the
// resulting change with the given origin.
func (c *Coordinator) mutate(ctx context.Context, origin domain.Origin, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetPending()
	if err := fn(); err != nil {
		return err
	}
	if !c.changed {
		return nil
	}
	return c.commit(ctx, origin, c.pending, origin.Publishes())
}

func (c *Coordinator) resetPending() {
	c.pending = nil
	c.changed = false
}

// commit persists entries, publishes them when asked, journals the change
// and notifies listeners (caller must hold mu). Publishing only happens
// after a successful write.
func (c *Coordinator) commit(ctx context.Context, origin domain.Origin, entries []domain.ShoppingEntry, publish bool) error {
	record := domain.JournalRecord{Origin: origin, EntryCount: len(entries)}

	var result error
	if err := c.entries.WriteEntries(entries); err != nil {
		result = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		log.Printf("coordinator: write entries failed: %v", err)
		c.notice(domain.NoticeError, "Could not save the list", result)
		record.Error = result.Error()
	} else if publish {
		record.Published = c.publish(ctx, entries)
	}

	c.record(ctx, record)
	c.emitChange(domain.Change{Origin: origin, Entries: entries})
	return result
}

// publish sends the list and reports whether the broker accepted it.
// Failures are downgraded to notices.
func (c *Coordinator) publish(ctx context.Context, entries []domain.ShoppingEntry) bool {
	payload, err := domain.EncodeEntries(entries)
	if err != nil {
		c.notice(domain.NoticeError, "Could not encode the list for sync", err)
		return false
	}

	err = c.channel.Publish(ctx, payload, domain.DefaultPublishOptions())
	switch {
	case err == nil:
		logger.Debug("Published %d entries", len(entries))
		return true
	case errors.Is(err, domain.ErrNotConnected):
		logger.Warn("Not connected, list not synchronised")
		c.notice(domain.NoticeWarning, "Not connected, the list was saved locally only", err)
	default:
		log.Printf("coordinator: publish failed: %v", err)
		c.notice(domain.NoticeWarning, "Could not synchronise the list", err)
	}
	return false
}

func (c *Coordinator) record(ctx context.Context, record domain.JournalRecord) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Append(ctx, record); err != nil {
		log.Printf("coordinator: journal append failed: %v", err)
	}
}

func (c *Coordinator) emitChange(change domain.Change) {
	if change.Entries == nil {
		change.Entries = []domain.ShoppingEntry{}
	}
	c.listenersMu.RLock()
	listeners := make([]func(domain.Change), len(c.changeListeners))
	copy(listeners, c.changeListeners)
	c.listenersMu.RUnlock()

	for _, l := range listeners {
		l(domain.Change{Origin: change.Origin, Entries: domain.CloneEntries(change.Entries)})
	}
}

func (c *Coordinator) notice(level domain.NoticeLevel, message string, err error) {
	c.listenersMu.RLock()
	listeners := make([]func(domain.Notice), len(c.noticeListeners))
	copy(listeners, c.noticeListeners)
	c.listenersMu.RUnlock()

	n := domain.Notice{Level: level, Message: message, Err: err}
	for _, l := range listeners {
		l(n)
	}
}
