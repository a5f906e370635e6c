//go:build linux
// +build linux

package desktop

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/esiqveland/notify"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"github.com/Veraticus/remind-agent/pkg/presenter"
)

// defaultAction is the action key servers emit for a click on the toast body.
const defaultAction = "default"

// maxExpireTimeout is the longest timeout the int32 millisecond field holds.
const maxExpireTimeout = math.MaxInt32 * time.Millisecond

// sender is the part of notify.Notifier the toaster uses.
type sender interface {
	SendNotification(n notify.Notification) (uint32, error)
	Close() error
}

// dialFunc connects a sender whose signal callbacks feed the toaster.
type dialFunc func(onAction func(id uint32, key string), onClosed func(id uint32)) (sender, error)

// DBusToaster raises freedesktop notifications and routes clicks back to
// the handler registered for the clicked toast.
type DBusToaster struct {
	appName string
	logger  zerolog.Logger
	dial    dialFunc

	mu       sync.Mutex
	conn     sender
	handlers map[uint32]func()
}

func newPlatformToaster(appName string, logger zerolog.Logger) (presenter.Toaster, error) {
	return NewDBusToaster(appName, logger, dialSessionBus)
}

// NewDBusToaster connects to the notification server.
func NewDBusToaster(appName string, logger zerolog.Logger, dial dialFunc) (*DBusToaster, error) {
	t := &DBusToaster{
		appName:  appName,
		logger:   logger,
		dial:     dial,
		handlers: make(map[uint32]func()),
	}
	conn, err := dial(t.onAction, t.onClosed)
	if err != nil {
		return nil, err
	}
	t.conn = conn
	return t, nil
}

func dialSessionBus(onAction func(id uint32, key string), onClosed func(id uint32)) (sender, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("session bus auth: %w", err)
	}
	if err := conn.Hello(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("session bus hello: %w", err)
	}

	n, err := notify.New(conn,
		notify.WithOnAction(func(s *notify.ActionInvokedSignal) {
			onAction(s.ID, s.ActionKey)
		}),
		notify.WithOnClosed(func(s *notify.NotificationClosedSignal) {
			onClosed(s.ID)
		}),
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	return &busNotifier{Notifier: n, conn: conn}, nil
}

// busNotifier owns the private connection behind a notifier.
type busNotifier struct {
	notify.Notifier
	conn *dbus.Conn
}

func (b *busNotifier) Close() error {
	err := b.Notifier.Close()
	if cerr := b.conn.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Show implements presenter.Toaster. A failed send reconnects once and
// retries.
func (t *DBusToaster) Show(toast presenter.Toast, onClick func()) error {
	n := notify.Notification{
		AppName:       t.appName,
		Summary:       toast.Title,
		Body:          toast.Message,
		Hints:         map[string]dbus.Variant{},
		ExpireTimeout: expireTimeout(toast.Timeout),
	}
	if onClick != nil {
		n.Actions = []notify.Action{{Key: defaultAction, Label: "Open"}}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id, err := t.send(n)
	if err != nil {
		return err
	}
	if onClick != nil {
		t.handlers[id] = onClick
	}
	t.logger.Debug().Uint32("id", id).Str("toast", toast.ID).Msg("toast sent")
	return nil
}

// expireTimeout maps a toast timeout onto the bus field. Zero means "never"
// on the bus, so non-positive timeouts leave expiry to the server instead.
func expireTimeout(d time.Duration) time.Duration {
	switch {
	case d < time.Millisecond:
		return notify.ExpireTimeoutSetByNotificationServer
	case d > maxExpireTimeout:
		return maxExpireTimeout
	default:
		return d
	}
}

func (t *DBusToaster) send(n notify.Notification) (uint32, error) {
	if t.conn != nil {
		id, err := t.conn.SendNotification(n)
		if err == nil {
			return id, nil
		}
		t.logger.Debug().Err(err).Msg("send failed, reconnecting")
		// Closing waits for the signal loop, which may be blocked on t.mu.
		go func(old sender) { _ = old.Close() }(t.conn)
		t.conn = nil
	}

	conn, err := t.dial(t.onAction, t.onClosed)
	if err != nil {
		return 0, fmt.Errorf("reconnect: %w", err)
	}
	t.conn = conn
	// Ids from the old connection may be reused by a restarted server.
	t.handlers = make(map[uint32]func())

	id, err := conn.SendNotification(n)
	if err != nil {
		return 0, fmt.Errorf("send notification: %w", err)
	}
	return id, nil
}

func (t *DBusToaster) onAction(id uint32, key string) {
	if key != defaultAction {
		return
	}
	t.mu.Lock()
	handler := t.handlers[id]
	t.mu.Unlock()

	if handler != nil {
		handler()
	}
}

func (t *DBusToaster) onClosed(id uint32) {
	t.mu.Lock()
	delete(t.handlers, id)
	t.mu.Unlock()
}

// Close implements presenter.Toaster.
func (t *DBusToaster) Close() error {
	t.mu.Lock()
	conn := t.conn
	t.conn = nil
	t.handlers = make(map[uint32]func())
	t.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	if err != nil && !errors.Is(err, dbus.ErrClosed) {
		return err
	}
	return nil
}
