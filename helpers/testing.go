package helpers

// Fataler is the intersection of *log2.Log and testing.TB used by
// panic recovery in once-guarded constructors.
type Fataler interface {
	Fatal(...interface{})
}
