package events

var APIKeySwitchedTopic = "APIKeySwitchedEvent"

// APIKeySwitched is published after the backup key became active.
type APIKeySwitched struct {
	Reason      string
	ActiveIndex int
}
