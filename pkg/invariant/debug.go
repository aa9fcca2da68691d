//go:build debug

package invariant

func check(v *Violation) {
	logViolation(v)
	panic(v)
}
