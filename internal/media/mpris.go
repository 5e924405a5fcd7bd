package media

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	mprisBusName    = "org.mpris.MediaPlayer2.noveltts"
	mprisPath       = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	rootInterface   = "org.mpris.MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

// MPRIS publishes the open document to the desktop's media-control surface
// (lock screens, media keys, player applets) and routes its transport
// commands into the Handler.
type MPRIS struct {
	conn  *dbus.Conn
	props *prop.Properties
}

// NewMPRIS claims the player bus name on the session bus. Callers should
// fall back to Noop when this fails.
func NewMPRIS(handler Handler) (*MPRIS, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	root := &rootObject{}
	player := &playerObject{handler: handler}
	if err := conn.Export(root, mprisPath, rootInterface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export root: %w", err)
	}
	if err := conn.Export(player, mprisPath, playerInterface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export player: %w", err)
	}

	propSpec := map[string]map[string]*prop.Prop{
		rootInterface: {
			"Identity":       {Value: "NovelTTS", Emit: prop.EmitTrue},
			"CanQuit":        {Value: false, Emit: prop.EmitTrue},
			"CanRaise":       {Value: false, Emit: prop.EmitTrue},
			"HasTrackList":   {Value: false, Emit: prop.EmitTrue},
			"SupportedUriSchemes": {Value: []string{"file"}, Emit: prop.EmitTrue},
			"SupportedMimeTypes":  {Value: []string{"application/pdf"}, Emit: prop.EmitTrue},
		},
		playerInterface: {
			"PlaybackStatus": {Value: string(StatusStopped), Emit: prop.EmitTrue},
			"Metadata":       {Value: map[string]dbus.Variant{}, Emit: prop.EmitTrue},
			"CanPlay":        {Value: true, Emit: prop.EmitTrue},
			"CanPause":       {Value: true, Emit: prop.EmitTrue},
			"CanGoNext":      {Value: true, Emit: prop.EmitTrue},
			"CanGoPrevious":  {Value: true, Emit: prop.EmitTrue},
			"CanSeek":        {Value: false, Emit: prop.EmitTrue},
			"CanControl":     {Value: true, Emit: prop.EmitTrue},
		},
	}
	props, err := prop.Export(conn, mprisPath, propSpec)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("export properties: %w", err)
	}

	node := &introspect.Node{
		Name: string(mprisPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{Name: rootInterface, Methods: introspect.Methods(root)},
			{Name: playerInterface, Methods: introspect.Methods(player)},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), mprisPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	reply, err := conn.RequestName(mprisBusName, dbus.NameFlagReplaceExisting)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("bus name %s not available", mprisBusName)
	}

	return &MPRIS{conn: conn, props: props}, nil
}

// SetInfo publishes the document title and location as track metadata.
func (m *MPRIS) SetInfo(info Info) {
	metadata := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(dbus.ObjectPath("/org/noveltts/track/current")),
		"xesam:title":   dbus.MakeVariant(info.Title),
	}
	if info.TrackURL != "" {
		metadata["xesam:url"] = dbus.MakeVariant(info.TrackURL)
	}
	m.props.SetMust(playerInterface, "Metadata", metadata)
}

// SetStatus publishes the playback status.
func (m *MPRIS) SetStatus(status Status) {
	m.props.SetMust(playerInterface, "PlaybackStatus", string(status))
}

// Close releases the bus name and connection.
func (m *MPRIS) Close() error {
	if _, err := m.conn.ReleaseName(mprisBusName); err != nil {
		m.conn.Close()
		return err
	}
	return m.conn.Close()
}

// rootObject implements the org.mpris.MediaPlayer2 methods. Raise and Quit
// are accepted but ignored; a terminal app has no window to raise.
type rootObject struct{}

func (r *rootObject) Raise() *dbus.Error { return nil }
func (r *rootObject) Quit() *dbus.Error  { return nil }

// playerObject implements the org.mpris.MediaPlayer2.Player transport
// methods by delegating to the Handler.
type playerObject struct {
	handler Handler
}

func (p *playerObject) Play() *dbus.Error {
	p.handler.RemotePlay()
	return nil
}

func (p *playerObject) Pause() *dbus.Error {
	p.handler.RemotePause()
	return nil
}

func (p *playerObject) PlayPause() *dbus.Error {
	p.handler.RemotePlayPause()
	return nil
}

func (p *playerObject) Stop() *dbus.Error {
	p.handler.RemoteStop()
	return nil
}

func (p *playerObject) Next() *dbus.Error {
	p.handler.RemoteNext()
	return nil
}

func (p *playerObject) Previous() *dbus.Error {
	p.handler.RemotePrevious()
	return nil
}
