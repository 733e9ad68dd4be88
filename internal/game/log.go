package game

import "github.com/broadside/broadside-server-go/internal/game/rules"

// maxLogEntries bounds the retained player-facing log.
const maxLogEntries = 500

// LogEntry is one line of the player-facing game log.
type LogEntry struct {
	Message  string          `json:"message"`
	Severity rules.Severity  `json:"severity"`
	Type     rules.EventType `json:"type"`
	Turn     int             `json:"turn"`
}

func entryFromEvent(e rules.Event) LogEntry {
	return LogEntry{
		Message:  e.Message,
		Severity: e.Severity,
		Type:     e.Type,
		Turn:     e.Turn,
	}
}

// appendLog keeps the newest maxLogEntries entries, oldest first.
func appendLog(log []LogEntry, entry LogEntry) []LogEntry {
	log = append(log, entry)
	if over := len(log) - maxLogEntries; over > 0 {
		log = append(log[:0:0], log[over:]...)
	}
	return log
}
