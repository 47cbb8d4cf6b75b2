package trace

// New composes sinks into a single Tracer. LevelOff or an empty sink
// list yields Nop; a single sink is returned unwrapped.
func New(level Level, sinks ...Tracer) Tracer {
	if level == LevelOff || len(sinks) == 0 {
		return Nop
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &fanout{sinks: sinks, level: level}
}

// fanout forwards every event to all sinks.
type fanout struct {
	sinks []Tracer
	level Level
}

func (t *fanout) Emit(ev *Event) {
	for _, s := range t.sinks {
		s.Emit(ev)
	}
}

// Flush flushes every sink and reports the first error.
func (t *fanout) Flush() error {
	return t.each(Tracer.Flush)
}

// Close closes every sink and reports the first error.
func (t *fanout) Close() error {
	return t.each(Tracer.Close)
}

func (t *fanout) each(op func(Tracer) error) error {
	var first error
	for _, s := range t.sinks {
		if err := op(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t *fanout) Level() Level { return t.level }

func (t *fanout) Enabled() bool { return t.level > LevelOff }
