// Copyright 2025 Certen Protocol

package attestation

import (
	"fmt"
	"strings"
	"sync"
)

// Factory resolves a Verifier by service id, case-insensitively.
type Factory struct {
	mu        sync.RWMutex
	verifiers map[string]Verifier
}

// NewFactory returns an empty Factory. Register verifiers before use.
func NewFactory() *Factory {
	return &Factory{verifiers: make(map[string]Verifier)}
}

// Register adds v under its own ServiceID, replacing any previous
// registration for that id.
func (f *Factory) Register(v Verifier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifiers[strings.ToLower(v.ServiceID())] = v
}

// Resolve looks up the Verifier registered for serviceID.
func (f *Factory) Resolve(serviceID string) (Verifier, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.verifiers[strings.ToLower(serviceID)]
	return v, ok
}

// MustResolve is Resolve but returns ErrUnknownService instead of a
// bool, for call sites that want a single error-checked path.
func (f *Factory) MustResolve(serviceID string) (Verifier, error) {
	v, ok := f.Resolve(serviceID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, serviceID)
	}
	return v, nil
}
