package services

import (
	"time"

	"github.com/google/uuid"
)

// ActionState is the lifecycle of one store action.
type ActionState string

const (
	ActionIdle      ActionState = "idle"
	ActionRunning   ActionState = "running"
	ActionSucceeded ActionState = "succeeded"
	ActionFailed    ActionState = "failed"
)

// ActionStatus describes the most recent request of an action.
type ActionStatus struct {
	Action     string
	RequestID  string
	State      ActionState
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// requestTracker keeps one entry per in-flight request so that finishing one
// action never clears the loading state of another. It is not safe for
// concurrent use; the owning store's mutex guards it.
type requestTracker struct {
	now      func() time.Time
	inflight map[string]ActionStatus
	last     map[string]ActionStatus
}

func newRequestTracker() *requestTracker {
	return &requestTracker{
		now:      time.Now,
		inflight: make(map[string]ActionStatus),
		last:     make(map[string]ActionStatus),
	}
}

func (t *requestTracker) start(action string) string {
	id := uuid.NewString()
	st := ActionStatus{Action: action, RequestID: id, State: ActionRunning, StartedAt: t.now()}
	t.inflight[id] = st
	t.last[action] = st
	return id
}

// finish closes request id. The action's reported status only changes if no
// newer request of the same action has started since.
func (t *requestTracker) finish(id string, errMsg string) {
	st, ok := t.inflight[id]
	if !ok {
		return
	}
	delete(t.inflight, id)

	st.FinishedAt = t.now()
	st.State = ActionSucceeded
	if errMsg != "" {
		st.State = ActionFailed
		st.Error = errMsg
	}

	if t.last[st.Action].RequestID == id {
		t.last[st.Action] = st
	}
}

func (t *requestTracker) loading() bool {
	return len(t.inflight) > 0
}

func (t *requestTracker) status(action string) ActionStatus {
	if st, ok := t.last[action]; ok {
		return st
	}
	return ActionStatus{Action: action, State: ActionIdle}
}
