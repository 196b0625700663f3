package wfc

// SocketType is a connector tag on one face of a tile.
// Two faces may touch only when their sockets are compatible.
type SocketType string

// SocketNone marks a face that must border empty space or the grid edge
const SocketNone SocketType = ""

// String returns the socket tag, or "none" for SocketNone
func (s SocketType) String() string {
	if s == SocketNone {
		return "none"
	}
	return string(s)
}

// IsNone returns true if s is SocketNone
func (s SocketType) IsNone() bool {
	return s == SocketNone
}

// AreCompatible returns true if a face with socket a may touch a face with socket b.
// Two none sockets are compatible, a none socket never touches a real one,
// and two real sockets must match exactly.
func AreCompatible(a, b SocketType) bool {
	if a.IsNone() && b.IsNone() {
		return true
	}
	if a.IsNone() || b.IsNone() {
		return false
	}
	return a == b
}
