package application

import "github.com/AriAlanPR/image-gallery-saver/gallery/domain"

// ScopedStorageAPILevel is the first platform API level whose shared
// collections are only reachable through the media index.
const ScopedStorageAPILevel = 29

// Platform is the platform-context handle a GallerySaver works against.
type Platform struct {
	APILevel int
	// Scoped writes through the media index, nil when the platform has none
	Scoped domain.StorageBackend
	// Legacy writes directly into the public directories
	Legacy domain.StorageBackend
}

// SupportsScopedStorage reports whether saves must go through the media index
func (p Platform) SupportsScopedStorage() bool {
	return p.APILevel >= ScopedStorageAPILevel && p.Scoped != nil
}

// Backend selects the storage backend for one call
func (p Platform) Backend() domain.StorageBackend {
	if p.SupportsScopedStorage() {
		return p.Scoped
	}
	return p.Legacy
}
