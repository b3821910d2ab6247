package domain

// CableKey identifies a cable by its (source, sink) pair.
type CableKey struct {
	Source JackID
	Sink   JackID
}

// Cable is a directed edge from a source jack to a sink jack.
type Cable struct {
	Source *Jack
	Sink   *Jack
	Color  string
}

// Key returns the identity of the cable.
func (c Cable) Key() CableKey {
	return CableKey{Source: c.Source.ID(), Sink: c.Sink.ID()}
}

// Touches reports whether j is either end of the cable.
func (c Cable) Touches(j *Jack) bool {
	return c.Source.ID() == j.ID() || c.Sink.ID() == j.ID()
}

// Connection returns the engine edge the cable materializes.
func (c Cable) Connection() Connection {
	return Connection{Source: c.Source.Endpoint(), Sink: c.Sink.Endpoint()}
}

// CableView is what renderers draw for one cable.
type CableView struct {
	Source    string `json:"source"`
	Sink      string `json:"sink"`
	SourcePos Point  `json:"source_pos"`
	SinkPos   Point  `json:"sink_pos"`
	Color     string `json:"color"`
}
