// SPDX-License-Identifier: MIT
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncAttrLoad(t *testing.T) {
	before := testutil.ToFloat64(attrLoadsTotal.WithLabelValues("logs", "ok"))
	IncAttrLoad("logs", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(attrLoadsTotal.WithLabelValues("logs", "ok")))

	beforeErr := testutil.ToFloat64(attrLoadsTotal.WithLabelValues("samples", "error"))
	IncAttrLoad("samples", "error")
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(attrLoadsTotal.WithLabelValues("samples", "error")))
}

func TestIncMatchRun(t *testing.T) {
	before := testutil.ToFloat64(matchRunsTotal.WithLabelValues("ok"))
	IncMatchRun("ok")
	assert.Equal(t, before+1, testutil.ToFloat64(matchRunsTotal.WithLabelValues("ok")))
}

func TestIncCacheOp(t *testing.T) {
	before := testutil.ToFloat64(cacheOpsTotal.WithLabelValues("memory", "hit"))
	IncCacheOp("memory", "hit")
	assert.Equal(t, before+1, testutil.ToFloat64(cacheOpsTotal.WithLabelValues("memory", "hit")))
}

func TestRecordWellsCount(t *testing.T) {
	RecordWellsCount(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(wellsTotal))
}
