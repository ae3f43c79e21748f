package postgres

// AcquiredConns reports connections currently checked out of the pool.
func (s *Store) AcquiredConns() int32 {
	return s.pool.Stat().AcquiredConns()
}
