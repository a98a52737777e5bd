package ports

// Navigator is told when the client has irrecoverably lost its session and
// the user must authenticate again. Implementations must be idempotent:
// several failing requests may report the same expiry.
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }
