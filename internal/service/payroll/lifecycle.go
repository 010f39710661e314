package payroll

import (
	"sync"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// actionTarget maps a lifecycle action to the status it moves the record
// into.
var actionTarget = map[payroll.Action]payroll.Status{
	payroll.ActionGenerate: payroll.StatusComputed,
	payroll.ActionApprove:  payroll.StatusApproved,
	payroll.ActionRelease:  payroll.StatusReleased,
	payroll.ActionVoid:     payroll.StatusVoided,
}

// preconditions holds the persisted statuses each action may fire from.
// Generate is absent: it requires no record to exist (the implicit DRAFT
// state).
var preconditions = map[payroll.Action][]payroll.Status{
	payroll.ActionApprove: {payroll.StatusComputed},
	payroll.ActionRelease: {payroll.StatusApproved},
	payroll.ActionVoid:    {payroll.StatusApproved, payroll.StatusReleased},
}

func allowedFrom(action payroll.Action, current payroll.Status) bool {
	// A terminal record admits only a void, and VOIDED not even that.
	if current.Terminal() && action != payroll.ActionVoid {
		return false
	}
	for _, s := range preconditions[action] {
		if s == current {
			return true
		}
	}
	return false
}

// keyedMutex serializes payroll mutations per (employee, period) key. The
// store's compare-and-set is the correctness backstop; this keeps the
// common path from issuing doomed writes.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*entryLock)}
}

// Lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &entryLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func transitionKey(employeeID string, period payroll.Period) string {
	return employeeID + "|" + period.Key()
}
