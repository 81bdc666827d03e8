package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/soar/XRControllerView/internal/controls"
	"github.com/soar/XRControllerView/internal/xrmath"
)

const maxFrameBytes = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local use
	},
}

type feedState struct {
	session   string
	immersive bool
	refSpace  bool
	standing  xrmath.Mat4
	head      *HeadPose
	descs     []controls.ControllerDescriptor
	idSet     string
}

// Source collects the latest frame of every feed connection. Descriptors
// are rebuilt on every frame and never mutated afterwards, so Enumerate can
// hand out shallow copies.
type Source struct {
	logger *slog.Logger
	hints  chan struct{}

	mu     sync.RWMutex
	conns  map[string]*feedState
	order  []string
	latest string
}

func NewSource(logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		logger: logger,
		hints:  make(chan struct{}, 1),
		conns:  make(map[string]*feedState),
	}
}

// Open registers a new feed connection and returns its id, which doubles
// as the session id for frames that carry none.
func (s *Source) Open() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.conns[id] = &feedState{session: id}
	s.order = append(s.order, id)
	s.mu.Unlock()
	return id
}

// Close forgets a connection. Its controllers disappear on the next tick.
func (s *Source) Close(id string) {
	s.mu.Lock()
	st, ok := s.conns[id]
	delete(s.conns, id)
	s.order = slices.DeleteFunc(s.order, func(o string) bool { return o == id })
	if s.latest == id {
		s.latest = ""
	}
	s.mu.Unlock()

	if ok && len(st.descs) > 0 {
		s.hint()
	}
}

// Apply validates f and makes it the connection's current snapshot. A
// rejected frame leaves the previous snapshot in place.
func (s *Source) Apply(id string, f Frame) error {
	descs := make([]controls.ControllerDescriptor, 0, len(f.Controllers))
	ids := make([]string, 0, len(f.Controllers))
	for _, c := range f.Controllers {
		d, err := c.Descriptor()
		if err != nil {
			return err
		}
		descs = append(descs, d)
		ids = append(ids, c.ID+"/"+c.Hand)
	}
	standing := xrmath.Mat4Identity()
	if f.Standing != nil {
		m, err := mat4(f.Standing, "standing")
		if err != nil {
			return err
		}
		standing = *m
	}
	if f.Head != nil {
		if _, err := vec3(f.Head.Position, "head.position"); err != nil {
			return err
		}
		if _, err := quat(f.Head.Orientation, "head.orientation"); err != nil {
			return err
		}
	}

	s.mu.Lock()
	st, ok := s.conns[id]
	if !ok {
		s.mu.Unlock()
		return errors.Errorf("feed: unknown connection %s", id)
	}
	if f.Session != "" {
		st.session = f.Session
	}
	st.immersive = f.Immersive
	st.refSpace = f.ReferenceSpace
	st.standing = standing
	st.head = f.Head
	st.descs = descs
	idSet := strings.Join(ids, "|")
	changed := idSet != st.idSet
	st.idSet = idSet
	s.latest = id
	s.mu.Unlock()

	if changed {
		s.hint()
	}
	return nil
}

func (s *Source) hint() {
	select {
	case s.hints <- struct{}{}:
	default:
	}
}

// Hints fires when a connection's controller set changes.
func (s *Source) Hints() <-chan struct{} { return s.hints }

// Enumerate returns every connection's controllers, oldest connection
// first.
func (s *Source) Enumerate() []controls.ControllerDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []controls.ControllerDescriptor
	for _, id := range s.order {
		out = append(out, s.conns[id].descs...)
	}
	return out
}

// Session reports the session of the connection that sent the last frame.
func (s *Source) Session() controls.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.conns[s.latest]
	if !ok {
		return controls.Session{}
	}
	return controls.Session{
		ID:             st.session,
		Immersive:      st.immersive,
		Standing:       st.standing,
		ReferenceSpace: st.refSpace,
	}
}

// Head reports the head pose of the last frame that carried one.
func (s *Source) Head() (xrmath.Vec3, xrmath.Quat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.conns[s.latest]
	if !ok || st.head == nil {
		return xrmath.Vec3{}, xrmath.Quat{}, false
	}
	p := xrmath.V3FromSlice(st.head.Position, 0)
	q := xrmath.QuatFromSlice(st.head.Orientation, 0)
	return p, q, true
}

// ServeHTTP upgrades to a websocket and applies every text message as a
// Frame until the client goes away.
func (s *Source) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("feed upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxFrameBytes)

	id := s.Open()
	defer s.Close(id)
	logger := s.logger.With("feed", id, "remote", r.RemoteAddr)
	logger.Info("feed connected")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("feed read failed", "error", err)
			}
			break
		}
		var f Frame
		if err := json.Unmarshal(message, &f); err != nil {
			logger.Warn("feed frame decode failed", "error", err)
			continue
		}
		if err := s.Apply(id, f); err != nil {
			logger.Warn("feed frame rejected", "error", err)
		}
	}
	logger.Info("feed disconnected")
}
