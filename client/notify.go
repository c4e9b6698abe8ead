package client

// Notice is a transient user-facing message, the CLI's analogue of a toast.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Notifier receives notices. Implementations must not block the caller.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}

// Discard drops every notice.
var Discard Notifier = discard{}

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard
	}
	return n
}
