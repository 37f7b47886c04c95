package session

import "time"

// Turn is one completed exchange. Turns are never modified once appended.
type Turn struct {
	Query    string    `json:"query"`
	Response string    `json:"response"`
	At       time.Time `json:"at"`
}

// Session is a point-in-time copy of one conversation. Mutating it does not
// affect the store.
type Session struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
	// OriginalQuery is the first query since creation or the last reset.
	// Follow-up refinements are searched together with it.
	OriginalQuery string    `json:"original_query"`
	CreatedAt     time.Time `json:"created_at"`
	LastActive    time.Time `json:"last_active"`
}

func (s Session) clone() Session {
	out := s
	out.Turns = append([]Turn(nil), s.Turns...)
	return out
}

// Store holds conversation state keyed by an opaque session id.
//
// Implementations must be safe for concurrent use. Mutations of one session
// are serialised; operations on different sessions do not block each other.
type Store interface {
	// Resolve returns the session for id. An empty or unknown id creates a new
	// session under a freshly generated id; created reports which happened.
	Resolve(id string) (s Session, created bool)

	// Append records a turn and refreshes the activity timestamp. It returns
	// false when the session no longer exists.
	Append(id, query, response string) bool

	// Reset clears the turns of an existing session in place. Unknown ids
	// return false.
	Reset(id string) bool

	// Sweep removes sessions idle for longer than maxIdle and returns how many
	// were removed.
	Sweep(maxIdle time.Duration) int

	// Len is the number of live sessions.
	Len() int
}

// trimTurns keeps the newest max turns, dropping the oldest first.
func trimTurns(turns []Turn, max int) []Turn {
	if max <= 0 {
		return []Turn{}
	}
	if len(turns) <= max {
		return turns
	}
	return append([]Turn(nil), turns[len(turns)-max:]...)
}
