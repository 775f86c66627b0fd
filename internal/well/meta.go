// SPDX-License-Identifier: MIT

package well

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/petrolab/wellcore/internal/units"
)

// MetaFile is the well descriptor every well directory must contain.
const MetaFile = "meta.json"

// Meta identifies a well and its drilled depth range.
type Meta struct {
	Name      string   `json:"name"`
	Field     string   `json:"field"`
	DepthFrom units.Cm `json:"-"`
	DepthTo   units.Cm `json:"-"`
}

// metaJSON is the on-disk form: depths are meters, as written by the
// acquisition tooling.
type metaJSON struct {
	Name      string  `json:"name"`
	Field     string  `json:"field"`
	DepthFrom float64 `json:"depth_from"`
	DepthTo   float64 `json:"depth_to"`
}

// ReadMeta loads and validates the meta.json of a well directory.
func ReadMeta(dir string) (Meta, error) {
	path := filepath.Join(dir, MetaFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, fmt.Errorf("read %s: %w", MetaFile, err)
	}
	var mj metaJSON
	if err := json.Unmarshal(raw, &mj); err != nil {
		return Meta{}, fmt.Errorf("parse %s: %w", MetaFile, err)
	}
	m := Meta{
		Name:      mj.Name,
		Field:     mj.Field,
		DepthFrom: units.MetersToCm(mj.DepthFrom),
		DepthTo:   units.MetersToCm(mj.DepthTo),
	}
	if m.Name == "" {
		return Meta{}, fmt.Errorf("%s: name is empty", path)
	}
	if m.DepthTo <= m.DepthFrom {
		return Meta{}, fmt.Errorf("%s: depth_to %.2f must exceed depth_from %.2f",
			path, mj.DepthTo, mj.DepthFrom)
	}
	return m, nil
}
