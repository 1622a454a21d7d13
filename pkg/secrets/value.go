// pkg/secrets/value.go

package secrets

// Value holds one fetched secret in process memory. It is never written to
// durable storage; the holder calls Zero before release.
type Value struct {
	buf []byte
}

// NewValue copies s into a zeroable buffer.
func NewValue(s string) *Value {
	return &Value{buf: []byte(s)}
}

// String exposes the secret for injection into the task environment.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return string(v.buf)
}

// Len reports the secret length without exposing content.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	return len(v.buf)
}

// Zero overwrites the buffer before the reference is dropped. Go's runtime
// may have made copies during string conversion; this is a best-effort
// reduction of the in-memory window, not a guarantee.
func (v *Value) Zero() {
	if v == nil {
		return
	}
	for i := range v.buf {
		v.buf[i] = 0
	}
	v.buf = v.buf[:0]
}
