package realtime

import (
	"encoding/json"
	"sync"
)

// Room naming convention shared with clients.
func UserRoom(userID string) string { return "user:" + userID }

// ConversationRoom names the fan-out channel for a conversation.
func ConversationRoom(conversationID string) string { return "conversation:" + conversationID }

// Envelope is the JSON frame pushed to clients: a tagged event name plus a
// fixed payload shape per event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Router owns every room<->connection edge. Connections and rooms are tracked
// by id in a single registry, so disconnect cleanup is a pure lookup-and-remove
// under one lock rather than reference chasing. A user may hold several live
// sessions at once (multiple tabs/devices).
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]map[string]*Connection // userID -> sessionID -> connection
	rooms        map[string]map[string]*Connection // room -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of rooms
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]map[string]*Connection),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection and joins it to its own identity room so
// server-initiated notifications can target the user without knowing how many
// sockets they hold.
func (r *Router) Attach(conn *Connection) {
	r.mu.Lock()
	r.sessions[conn.ID] = conn
	byUser := r.userSessions[conn.UserID]
	if byUser == nil {
		byUser = make(map[string]*Connection)
		r.userSessions[conn.UserID] = byUser
	}
	byUser[conn.ID] = conn
	r.sessionRooms[conn.ID] = make(map[string]struct{})
	r.joinLocked(UserRoom(conn.UserID), conn)
	r.mu.Unlock()

	conn.Start()
}

// Detach removes the connection from the registry and from every room it was
// in. Removal is synchronous: once Detach returns no fan-out can reach the
// connection.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	r.detachLocked(conn.ID)
	r.mu.Unlock()
}

// Join adds the connection to the named room. Idempotent.
func (r *Router) Join(room string, conn *Connection) {
	r.mu.Lock()
	if _, ok := r.sessions[conn.ID]; ok {
		r.joinLocked(room, conn)
	}
	r.mu.Unlock()
}

// Leave removes the connection from the named room. Idempotent on absence.
func (r *Router) Leave(room string, conn *Connection) {
	r.mu.Lock()
	r.leaveLocked(room, conn.ID)
	r.mu.Unlock()
}

// Rooms returns the rooms the connection is currently in.
func (r *Router) Rooms(conn *Connection) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessionRooms[conn.ID]))
	for room := range r.sessionRooms[conn.ID] {
		out = append(out, room)
	}
	return out
}

// Emit marshals an event envelope and delivers it to every connection in the
// room, best-effort per connection. When excludeUserID is non-empty, sessions
// bound to that user are skipped. Returns the number of deliveries.
func (r *Router) Emit(room string, event string, data any, excludeUserID string) int {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return 0
	}
	return r.broadcast(room, payload, excludeUserID)
}

// EmitUser delivers an event envelope to every live session of the user.
func (r *Router) EmitUser(userID string, event string, data any) int {
	return r.Emit(UserRoom(userID), event, data, "")
}

func (r *Router) broadcast(room string, payload []byte, excludeUserID string) int {
	r.mu.RLock()
	members := r.rooms[room]
	if len(members) == 0 {
		r.mu.RUnlock()
		return 0
	}

	delivered := 0
	for _, conn := range members {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	r.mu.RUnlock()
	return delivered
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		conns = append(conns, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[string]map[string]*Connection)
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) joinLocked(room string, conn *Connection) {
	members := r.rooms[room]
	if members == nil {
		members = make(map[string]*Connection)
		r.rooms[room] = members
	}
	members[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[room] = struct{}{}
}

func (r *Router) detachLocked(sessionID string) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	delete(r.sessions, sessionID)

	if byUser := r.userSessions[conn.UserID]; byUser != nil {
		delete(byUser, sessionID)
		if len(byUser) == 0 {
			delete(r.userSessions, conn.UserID)
		}
	}

	for room := range r.sessionRooms[sessionID] {
		r.leaveLocked(room, sessionID)
	}
	delete(r.sessionRooms, sessionID)
}

func (r *Router) leaveLocked(room string, sessionID string) {
	members := r.rooms[room]
	if members == nil {
		return
	}
	delete(members, sessionID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, room)
	}
}
