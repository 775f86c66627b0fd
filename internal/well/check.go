// SPDX-License-Identifier: MIT

package well

import (
	"errors"
	"fmt"
)

// Check verifies that dir is a loadable well directory: metadata parses, the
// mandatory logs attribute is present, and every optional attribute that has
// a file parses cleanly. Optional attributes that are simply absent are fine.
func Check(dir string) error {
	s, err := Open(dir)
	if err != nil {
		return err
	}
	if _, err := s.Logs(); err != nil {
		return fmt.Errorf("well %s: %w", s.meta.Name, err)
	}
	for _, attr := range []string{AttrCoreProperties, AttrCoreLogs} {
		if _, err := s.depthAttr(attr); err != nil && !errors.Is(err, ErrAttrNotFound) {
			return fmt.Errorf("well %s: %w", s.meta.Name, err)
		}
	}
	for _, attr := range IntervalAttrs {
		if _, err := s.intervalAttr(attr); err != nil && !errors.Is(err, ErrAttrNotFound) {
			return fmt.Errorf("well %s: %w", s.meta.Name, err)
		}
	}
	if _, err := s.Inclination(); err != nil && !errors.Is(err, ErrAttrNotFound) {
		return fmt.Errorf("well %s: %w", s.meta.Name, err)
	}
	// samples, when present, must not overlap
	if _, err := s.Samples(); err == nil {
		if _, err := s.CoreChunks(); err != nil {
			return fmt.Errorf("well %s: %w", s.meta.Name, err)
		}
	}
	return nil
}
