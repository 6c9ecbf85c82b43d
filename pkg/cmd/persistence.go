// Package cmd provides shared construction helpers for the binaries.
package cmd

import (
	"strings"

	"github.com/salem909/auton-maple/pkg/persistence"
	"github.com/salem909/auton-maple/pkg/persistence/file"
)

var supportedPersistenceProviders = []string{"file"}

// NewPersistence builds the persistence layer for a storage URL. Only the
// file provider is implemented; URLs without a recognized scheme are
// treated as file paths.
func NewPersistence(storageURL string) persistence.Persistence {
	provider := parsePersistenceProvider(storageURL)

	switch provider {
	default:
		return file.NewPersistence(storageURL)
	}
}

func parsePersistenceProvider(storageURL string) string {
	scheme, _, found := strings.Cut(storageURL, "://")
	if !found {
		return "file"
	}

	for _, supported := range supportedPersistenceProviders {
		if scheme == supported {
			return scheme
		}
	}

	return "file"
}
