package usecase

// Notifier is the fan-out port use cases push events through after a durable
// mutation commits. Delivery is best-effort per connection; a fan-out gap is
// healed by the client's next fetch, never surfaced to the caller.
type Notifier interface {
	// Emit delivers an event to every connection in the room, skipping
	// sessions bound to excludeUserID when non-empty. Returns deliveries.
	Emit(room string, event string, data any, excludeUserID string) int
	// EmitUser delivers an event to every live session of the user.
	EmitUser(userID string, event string, data any) int
}

// conversationRoom mirrors the room naming convention of the realtime layer.
func conversationRoom(conversationID string) string {
	return "conversation:" + conversationID
}

// NopNotifier discards all events. Used when no realtime layer is wired.
type NopNotifier struct{}

func (NopNotifier) Emit(string, string, any, string) int { return 0 }
func (NopNotifier) EmitUser(string, string, any) int     { return 0 }
