// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/petrolab/wellcore/internal/log"
	"github.com/petrolab/wellcore/internal/store"
)

// writeCatalog writes the catalog CSV atomically: renameio fsyncs the temp
// file before the rename, so readers never observe a partial catalog.
func writeCatalog(ctx context.Context, path string, records []store.WellRecord) error {
	logger := log.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending catalog file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending catalog file")
		}
	}()

	w := csv.NewWriter(pendingFile)
	header := []string{"slug", "name", "field", "path", "depth_from_cm", "depth_to_cm", "attrs", "status", "error"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write catalog header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Slug,
			r.Name,
			r.Field,
			r.Path,
			strconv.FormatInt(r.DepthFrom, 10),
			strconv.FormatInt(r.DepthTo, 10),
			strings.Join(r.Attrs, ";"),
			r.Status,
			r.Error,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush catalog: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace catalog file: %w", err)
	}

	logger.Info().
		Str(log.FieldEvent, "catalog.write").
		Str(log.FieldCatalogPath, path).
		Int("wells", len(records)).
		Msg("catalog written")
	return nil
}
