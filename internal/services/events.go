package services

// EventDispatcher fans domain events out to external subscribers. The
// integrations module implements it; producers treat delivery as
// fire-and-forget.
type EventDispatcher interface {
	Dispatch(event string, payload map[string]interface{})
}
