package pathoram

import "sync"

// Synchronized serializes every access to one Oram behind a single lock.
// Accesses must never interleave: the obliviousness argument assumes each
// path is read and written back before the next one is touched.
type Synchronized struct {
	mu   sync.Mutex
	oram *Oram
}

// NewSynchronized wraps o. o must not be used directly afterwards.
func NewSynchronized(o *Oram) *Synchronized {
	return &Synchronized{oram: o}
}

// Execute performs one access while holding the lock.
func (s *Synchronized) Execute(req Request) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.oram.Execute(req)
}

// Read reads the value stored at address.
func (s *Synchronized) Read(address int) (Result, error) {
	return s.Execute(ReadRequest(address))
}

// Write stores data at address.
func (s *Synchronized) Write(address int, data []byte) error {
	_, err := s.Execute(WriteRequest(address, data))
	return err
}

// Verify checks storage invariants while holding the lock.
func (s *Synchronized) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.oram.Verify()
}
