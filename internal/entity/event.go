package entity

type EventType string

const (
	EventGameCreated  EventType = "game:created"
	EventGameJoined   EventType = "game:joined"
	EventGameMove     EventType = "game:move"
	EventGameComplete EventType = "game:complete"
	EventGameDeleted  EventType = "game:deleted"
)

// GameEvent - a change to one game, fanned out to subscribers after the change is committed.
type GameEvent struct {
	Type   EventType    `json:"type"`
	GameID int64        `json:"gameId"`
	Game   GameSnapshot `json:"game"`
	Move   *Move        `json:"move,omitempty"`
}
