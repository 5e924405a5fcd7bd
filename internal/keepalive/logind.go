package keepalive

import (
	"fmt"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	logindService = "org.freedesktop.login1"
	logindPath    = "/org/freedesktop/login1"
	inhibitMethod = "org.freedesktop.login1.Manager.Inhibit"
)

// Logind acquires idle-inhibit leases from systemd-logind. The lease is a
// file descriptor; closing it releases the inhibit.
type Logind struct {
	conn *dbus.Conn
}

// NewLogind connects to the system bus. Callers should fall back to Noop
// when this fails (no bus, non-Linux host).
func NewLogind() (*Logind, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return &Logind{conn: conn}, nil
}

// Acquire takes an "idle" inhibit lock for the given reason.
func (l *Logind) Acquire(reason string) (Lease, error) {
	obj := l.conn.Object(logindService, logindPath)

	var fd dbus.UnixFD
	call := obj.Call(inhibitMethod, 0, "idle", "noveltts", reason, "block")
	if err := call.Store(&fd); err != nil {
		return nil, fmt.Errorf("logind inhibit: %w", err)
	}

	return &fdLease{file: os.NewFile(uintptr(fd), "logind-inhibit")}, nil
}

// Close drops the bus connection.
func (l *Logind) Close() error {
	return l.conn.Close()
}

type fdLease struct {
	once sync.Once
	file *os.File
}

func (f *fdLease) Release() {
	f.once.Do(func() { f.file.Close() })
}
