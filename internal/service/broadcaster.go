package service

import "go.uber.org/zap"

// Broadcaster pushes realtime events to connected dashboards.
type Broadcaster interface {
	Publish(event string, payload interface{})
}

type nopBroadcaster struct{}

func (nopBroadcaster) Publish(string, interface{}) {}

func orNop(b Broadcaster) Broadcaster {
	if b == nil {
		return nopBroadcaster{}
	}
	return b
}

func orNopLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
