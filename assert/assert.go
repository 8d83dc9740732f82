package assert

import "github.com/oomph-ac/charsim/oerror"

// IsTrue panics with a formatted *oerror.Error if ok is false. It is meant for programmer
// invariants only; runtime conditions should return errors instead.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
