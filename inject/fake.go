package inject

import "sync"

// Fake records injected texts for tests.
type Fake struct {
	mu    sync.Mutex
	texts []string
	Err   error
}

func NewFakeInjector() *Fake { return &Fake{} }

func (f *Fake) Inject(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *Fake) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.texts))
	copy(out, f.texts)
	return out
}
