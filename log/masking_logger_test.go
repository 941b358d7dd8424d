/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package log_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ismp-tools/go-crpt/log"
	"github.com/ismp-tools/go-crpt/log/logtest"
)

func TestMaskingLogger(t *testing.T) {
	recorder := logtest.NewRecorder()
	logger := log.NewMaskingLogger(recorder, log.NewMasker(log.DefaultMaskingRules))

	logger.Info(`sending document {"doc_id":"42","signature":"c2VjcmV0"}`)

	entry, found := recorder.FindEntryByFilter(func(e logtest.RecordedEntry) bool {
		return e.Level == log.LevelInfo
	})
	require.True(t, found)
	require.Equal(t, `sending document {"doc_id":"42","signature": "***"}`, entry.Text)
	require.NotContains(t, entry.Text, "c2VjcmV0")
}
