// Package metadata resolves token metadata locations.
package metadata

import (
	"fmt"
	"sync"

	id "mintgate/pkg/domain"
	domainerrors "mintgate/pkg/domain-errors"
)

// DefaultExtension is the metadata file suffix used when none is
// configured at startup.
const DefaultExtension = ".json"

// Resolver builds metadata URIs for issued tokens.
//
// A URI is the literal concatenation baseLocation + decimal id +
// extension. No separators are inserted; a base location that needs a
// trailing slash must be configured with one.
type Resolver struct {
	mu           sync.RWMutex
	baseLocation string
	extension    string
}

// NewResolver constructs a resolver for the given base location and
// extension.
func NewResolver(baseLocation, extension string) *Resolver {
	return &Resolver{
		baseLocation: baseLocation,
		extension:    extension,
	}
}

// TokenURI resolves the metadata URI for an issued token. The token
// must have been issued already: ids above totalSupply resolve to a
// not-found error, as does any id when no base location is configured.
func (r *Resolver) TokenURI(tokenID id.TokenID, totalSupply uint64) (string, error) {
	if uint64(tokenID) == 0 || uint64(tokenID) > totalSupply {
		return "", domainerrors.New(domainerrors.CodeNotFound, fmt.Sprintf("token %s does not exist", tokenID))
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.baseLocation == "" {
		return "", domainerrors.New(domainerrors.CodeNotFound, "metadata location not configured")
	}
	return r.baseLocation + tokenID.String() + r.extension, nil
}

// BaseLocation returns the configured base location.
func (r *Resolver) BaseLocation() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseLocation
}

// Extension returns the configured extension.
func (r *Resolver) Extension() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extension
}

// SetBaseLocation replaces the base location for future resolutions.
func (r *Resolver) SetBaseLocation(baseLocation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseLocation = baseLocation
}

// SetExtension replaces the extension for future resolutions.
func (r *Resolver) SetExtension(extension string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extension = extension
}
