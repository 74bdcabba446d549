package atlas

import (
	"strings"

	"github.com/rs/zerolog"
)

type AtlasBuilderOption func(*atlasImpl)

// WithLogger sets the logger used while loading.
//
// Parameters:
//   - logger: the zerolog logger
//
// Returns:
//   - AtlasBuilderOption: a function that sets the logger
func WithLogger(logger zerolog.Logger) AtlasBuilderOption {
	return func(a *atlasImpl) {
		a.logger = logger
	}
}

// WithWorkers sets the number of decode workers used by Load.
// Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - AtlasBuilderOption: a function that sets the worker count
func WithWorkers(n int) AtlasBuilderOption {
	return func(a *atlasImpl) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithPadding sets the transparent gap in pixels kept around every packed image.
//
// Parameters:
//   - px: the padding in pixels
//
// Returns:
//   - AtlasBuilderOption: a function that sets the padding
func WithPadding(px int) AtlasBuilderOption {
	return func(a *atlasImpl) {
		if px >= 0 {
			a.padding = px
		}
	}
}

// WithExtensions replaces the set of file extensions Load accepts, e.g. ".png".
//
// Parameters:
//   - exts: the accepted extensions, case-insensitive
//
// Returns:
//   - AtlasBuilderOption: a function that sets the extensions
func WithExtensions(exts ...string) AtlasBuilderOption {
	return func(a *atlasImpl) {
		a.extensions = a.extensions[:0]
		for _, e := range exts {
			e = strings.ToLower(e)
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			a.extensions = append(a.extensions, e)
		}
	}
}
