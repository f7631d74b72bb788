//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	appName = "Echoes"
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	obj dbus.BusObject
}

// New creates a Notifier that sends desktop notifications via D-Bus.
// Returns a no-op notifier if D-Bus is unavailable.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return stubNotifier{}, nil //nolint:nilerr // notifications are optional
	}
	return &dbusNotifier{obj: conn.Object(dbusNotifyDest, dbusNotifyPath)}, nil
}

func hints(n Notification) map[string]dbus.Variant {
	h := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant("echoes"),
		"category":      dbus.MakeVariant("x-gnome.music"),
	}
	if n.Urgency == UrgencyLow {
		// Track changes are not worth keeping in the notification history.
		h["transient"] = dbus.MakeVariant(true)
	}
	return h
}

// Notify sends a notification via D-Bus.
//
// Signature: Notify(app_name, replaces_id, icon, summary, body, actions,
// hints, timeout) -> id.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	call := n.obj.Call(
		dbusNotifyInterface+".Notify", 0,
		appName,
		notif.ReplacesID,
		notif.Icon,
		notif.Title,
		notif.Body,
		[]string{},
		hints(notif),
		notif.Timeout,
	)
	if call.Err != nil {
		return 0, call.Err
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes a notification by ID.
func (n *dbusNotifier) Close(id uint32) error {
	return n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id).Err
}
