package decorate

// Sink receives the decorations of each track. The Record is reused by the
// Engine after Write returns, so implementations that keep it must copy it.
type Sink interface {
	Write(r *Record) error
}

// MemSink keeps a copy of every record in memory.
type MemSink struct {
	Records []*Record
}

func (s *MemSink) Write(r *Record) error {
	s.Records = append(s.Records, r.Clone())
	return nil
}
