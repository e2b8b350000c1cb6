package pathrecord_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/repotree/internal/filesystem"
	"github.com/temirov/repotree/internal/pathrecord"
)

const testRecordFileConstant = "repositories.json"

func TestRecorderMergesWithExistingRecord(testInstance *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	recorder, recorderError := pathrecord.NewRecorder(memoryFileSystem, zap.NewNop())
	require.NoError(testInstance, recorderError)

	_, firstError := recorder.Record([]string{"b", "a"}, testRecordFileConstant)
	require.NoError(testInstance, firstError)

	mergedPaths, secondError := recorder.Record([]string{"b", "c"}, testRecordFileConstant)
	require.NoError(testInstance, secondError)
	require.Equal(testInstance, []string{"a", "b", "c"}, mergedPaths)

	contents, readError := memoryFileSystem.ReadFile(testRecordFileConstant)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "[\n  \"a\",\n  \"b\",\n  \"c\"\n]\n", string(contents))
}

func TestRecorderDeduplicatesInput(testInstance *testing.T) {
	recorder, recorderError := pathrecord.NewRecorder(filesystem.NewMemoryFileSystem(), nil)
	require.NoError(testInstance, recorderError)

	mergedPaths, recordError := recorder.Record([]string{"team/svc.git", "team/svc.git", ""}, testRecordFileConstant)
	require.NoError(testInstance, recordError)
	require.Equal(testInstance, []string{"team/svc.git"}, mergedPaths)
}

func TestRecorderStartsFreshWhenRecordIsMalformed(testInstance *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	require.NoError(testInstance, memoryFileSystem.WriteFile(testRecordFileConstant, []byte("{not json"), 0o644))

	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	recorder, recorderError := pathrecord.NewRecorder(memoryFileSystem, zap.New(observerCore))
	require.NoError(testInstance, recorderError)

	mergedPaths, recordError := recorder.Record([]string{"x"}, testRecordFileConstant)
	require.NoError(testInstance, recordError)
	require.Equal(testInstance, []string{"x"}, mergedPaths)
	require.Equal(testInstance, 1, observedLogs.FilterMessage("path record malformed, starting from an empty set").Len())
}

func TestRecorderCreatesParentDirectories(testInstance *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	recorder, recorderError := pathrecord.NewRecorder(memoryFileSystem, zap.NewNop())
	require.NoError(testInstance, recorderError)

	recordFile := filepath.Join("state", "records", testRecordFileConstant)
	_, recordError := recorder.Record([]string{"a"}, recordFile)
	require.NoError(testInstance, recordError)

	directoryInfo, statError := memoryFileSystem.Stat(filepath.Dir(recordFile))
	require.NoError(testInstance, statError)
	require.True(testInstance, directoryInfo.IsDir())
}

func TestRecorderReportsWriteFailures(testInstance *testing.T) {
	writeFailure := errors.New("disk full")
	recorder, recorderError := pathrecord.NewRecorder(failingWriteFileSystem{AferoFileSystem: filesystem.NewMemoryFileSystem(), failure: writeFailure}, zap.NewNop())
	require.NoError(testInstance, recorderError)

	_, recordError := recorder.Record([]string{"a"}, testRecordFileConstant)
	require.ErrorIs(testInstance, recordError, writeFailure)
}

func TestRecorderValidation(testInstance *testing.T) {
	_, constructionError := pathrecord.NewRecorder(nil, zap.NewNop())
	require.ErrorIs(testInstance, constructionError, pathrecord.ErrFileSystemNotConfigured)

	recorder, recorderError := pathrecord.NewRecorder(filesystem.NewMemoryFileSystem(), zap.NewNop())
	require.NoError(testInstance, recorderError)
	_, recordError := recorder.Record([]string{"a"}, "  ")
	require.ErrorIs(testInstance, recordError, pathrecord.ErrRecordFileNotSpecified)
}

type failingWriteFileSystem struct {
	filesystem.AferoFileSystem
	failure error
}

func (fileSystem failingWriteFileSystem) WriteFile(string, []byte, fs.FileMode) error {
	return fileSystem.failure
}
