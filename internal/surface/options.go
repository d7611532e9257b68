package surface

import (
	"github.com/dshills/inkwell/internal/logging"
	"github.com/dshills/inkwell/internal/renderer/layout"
)

// Default surface geometry.
const (
	// RowHeight is the height of one layout row in surface units.
	RowHeight = 16

	DefaultWidth  = 80
	DefaultHeight = 15

	// DefaultCacheSize is the number of layouts kept per surface.
	DefaultCacheSize = 4
)

// Option configures a Surface.
type Option func(*Surface)

// WithSize sets the surface size in columns and rows. Non-positive values
// keep the defaults.
func WithSize(width, height int) Option {
	return func(s *Surface) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// WithTabWidth sets the tab width used in preformatted blocks.
func WithTabWidth(n int) Option {
	return func(s *Surface) {
		if n > 0 {
			s.tabWidth = n
		}
	}
}

// WithLogger sets the surface logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.logger = l
		}
	}
}

func defaults() *Surface {
	return &Surface{
		width:    DefaultWidth,
		height:   DefaultHeight,
		tabWidth: layout.DefaultTabWidth,
		logger:   logging.Nop(),
	}
}
