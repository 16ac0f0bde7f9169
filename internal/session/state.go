package session

// Op names a session operation that carries its own load state.
type Op string

const (
	OpLoadCurrent Op = "load-current"
	OpLoadPast    Op = "load-past"
	OpCreateTrip  Op = "create-trip"
	OpEndTrip     Op = "end-trip"
	OpSubmitEntry Op = "submit-entry"
)

// OpState is the load state of one operation: exactly one of Idle, Loading,
// Success or Failed.
type OpState interface {
	String() string
	opState()
}

// Idle: the operation has not run in this session.
type Idle struct{}

// Loading: the operation is running. This is the advisory busy flag.
type Loading struct{}

// Success: the last run succeeded.
type Success struct{}

// Failed: the last run failed with Reason.
type Failed struct {
	Reason error
}

func (Idle) opState()    {}
func (Loading) opState() {}
func (Success) opState() {}
func (Failed) opState()  {}

func (Idle) String() string    { return "idle" }
func (Loading) String() string { return "loading" }
func (Success) String() string { return "success" }
func (f Failed) String() string {
	if f.Reason == nil {
		return "failed"
	}
	return "failed: " + f.Reason.Error()
}
