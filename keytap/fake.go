package keytap

// FakeSource is a scripted key-event source for tests.
type FakeSource struct {
	events chan KeyEvent
}

func NewFake() *FakeSource {
	return &FakeSource{events: make(chan KeyEvent, 64)}
}

func (f *FakeSource) Register() error         { return nil }
func (f *FakeSource) Unregister()             { close(f.events) }
func (f *FakeSource) Events() <-chan KeyEvent { return f.events }
func (f *FakeSource) Emit(ev KeyEvent)        { f.events <- ev }
