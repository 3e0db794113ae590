// Package session manages the locally signed-in identity. There is no
// remote auth server; the profile is a JSON file on disk and signing
// in simply loads or creates it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Identity is the signed-in profile attached to user-scoped records.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoUrl"`
}

// ChangeFunc observes sign-in state. A nil identity means signed out.
type ChangeFunc func(*Identity)

// Provider loads and persists the profile file and broadcasts
// sign-in state changes, including one initial callback on Watch.
type Provider struct {
	path string

	mu        sync.Mutex
	current   *Identity
	observers []ChangeFunc
}

func NewProvider(profilePath string) (*Provider, error) {
	p := &Provider{path: profilePath}

	data, err := os.ReadFile(profilePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// no profile yet, start signed out
	case err != nil:
		return nil, fmt.Errorf("reading profile: %w", err)
	default:
		var id Identity
		if err := json.Unmarshal(data, &id); err != nil {
			return nil, fmt.Errorf("parsing profile: %w", err)
		}
		p.current = &id
	}

	return p, nil
}

// Current returns the signed-in identity, or nil.
func (p *Provider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// SignIn creates the profile if none exists, persists it, and
// notifies observers. An empty display name is rejected.
func (p *Provider) SignIn(displayName, email string) (*Identity, error) {
	if displayName == "" {
		return nil, errors.New("display name must not be empty")
	}

	p.mu.Lock()
	id := p.current
	if id == nil {
		id = &Identity{UID: uuid.NewString()}
	}
	id.DisplayName = displayName
	id.Email = email
	p.current = id
	p.mu.Unlock()

	if err := p.save(id); err != nil {
		return nil, err
	}
	p.broadcast(id)
	return id, nil
}

// SignOut clears the in-memory identity and removes the profile file.
func (p *Provider) SignOut() error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()

	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing profile: %w", err)
	}
	p.broadcast(nil)
	return nil
}

// UpdateProfile rewrites mutable profile fields for the signed-in user.
func (p *Provider) UpdateProfile(displayName, photoURL string) (*Identity, error) {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return nil, errors.New("not signed in")
	}
	if displayName != "" {
		p.current.DisplayName = displayName
	}
	p.current.PhotoURL = photoURL
	id := p.current
	p.mu.Unlock()

	if err := p.save(id); err != nil {
		return nil, err
	}
	p.broadcast(id)
	return id, nil
}

// Watch registers fn and immediately calls it with current state.
func (p *Provider) Watch(fn ChangeFunc) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	current := p.current
	p.mu.Unlock()

	fn(current)
}

func (p *Provider) broadcast(id *Identity) {
	p.mu.Lock()
	observers := make([]ChangeFunc, len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, fn := range observers {
		fn(id)
	}
}

func (p *Provider) save(id *Identity) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}
