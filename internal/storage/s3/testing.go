package s3

// WithIDGenerator replaces the key id generator. Intended for tests.
func (s *Store) WithIDGenerator(newID func() string) *Store {
	s.newID = newID
	return s
}
