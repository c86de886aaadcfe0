package pathoram

// OpType represents the type of ORAM operation.
type OpType int

const (
	OpRead OpType = iota
	OpWrite
)

func (op OpType) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Request is a single logical access.
type Request struct {
	Op      OpType
	Address int
	Data    []byte // ignored for reads
}

// ReadRequest builds a read of address.
func ReadRequest(address int) Request {
	return Request{Op: OpRead, Address: address}
}

// WriteRequest builds a write of data to address.
func WriteRequest(address int, data []byte) Request {
	return Request{Op: OpWrite, Address: address, Data: data}
}

// Result holds the value stored at the address before the access.
// Found is false when the address has never been written.
type Result struct {
	Found bool
	Data  []byte
}

// Bool interprets a one-byte payload as a boolean.
func (r Result) Bool() (value, found bool) {
	if !r.Found || len(r.Data) == 0 {
		return false, false
	}
	return r.Data[0] != 0, true
}

// BoolData encodes v as a one-byte payload.
func BoolData(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}
