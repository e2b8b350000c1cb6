package pathrecord

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/shared"
)

const (
	// DefaultRecordFileConstant is the record location used when nothing else is configured.
	DefaultRecordFileConstant          = "repositories.json"
	fileSystemMissingMessageConstant   = "path recorder requires a filesystem"
	recordFileMissingMessageConstant   = "path record file not specified"
	encodeFailureTemplateConstant      = "encode path record %s: %w"
	directoryFailureTemplateConstant   = "create directory for path record %s: %w"
	writeFailureTemplateConstant       = "write path record %s: %w"
	recordUnreadableLogMessageConstant = "path record unreadable, starting from an empty set"
	recordMalformedLogMessageConstant  = "path record malformed, starting from an empty set"
	recordWrittenLogMessageConstant    = "path record written"
	logFieldRecordFileConstant         = "record_file"
	logFieldPathCountConstant          = "path_count"
	jsonIndentConstant                 = "  "
	recordFilePermissionsConstant      = fs.FileMode(0o644)
	recordDirectoryPermissionsConstant = fs.FileMode(0o755)
)

// ErrFileSystemNotConfigured indicates the recorder was constructed without a filesystem.
var ErrFileSystemNotConfigured = errors.New(fileSystemMissingMessageConstant)

// ErrRecordFileNotSpecified indicates an empty record file path.
var ErrRecordFileNotSpecified = errors.New(recordFileMissingMessageConstant)

// Recorder merges directory paths into a JSON record file.
type Recorder struct {
	fileSystem shared.FileSystem
	logger     *zap.Logger
}

// NewRecorder validates the filesystem and constructs a Recorder.
func NewRecorder(fileSystem shared.FileSystem, logger *zap.Logger) (*Recorder, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{fileSystem: fileSystem, logger: logger}, nil
}

// Record unions paths with the set stored at jsonFilePath and writes the sorted result back.
// A missing, unreadable, or malformed record is treated as empty. The merged set is returned.
func (recorder *Recorder) Record(paths []string, jsonFilePath string) ([]string, error) {
	trimmedRecordFile := strings.TrimSpace(jsonFilePath)
	if len(trimmedRecordFile) == 0 {
		return nil, ErrRecordFileNotSpecified
	}

	recordedPaths := make(map[string]struct{})
	for _, existingPath := range recorder.load(trimmedRecordFile) {
		recordedPaths[existingPath] = struct{}{}
	}
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		recordedPaths[path] = struct{}{}
	}

	mergedPaths := make([]string, 0, len(recordedPaths))
	for path := range recordedPaths {
		mergedPaths = append(mergedPaths, path)
	}
	sort.Strings(mergedPaths)

	encoded, encodeError := json.MarshalIndent(mergedPaths, "", jsonIndentConstant)
	if encodeError != nil {
		return nil, fmt.Errorf(encodeFailureTemplateConstant, trimmedRecordFile, encodeError)
	}
	encoded = append(encoded, '\n')

	parentDirectory := filepath.Dir(trimmedRecordFile)
	if parentDirectory != "." {
		if directoryError := recorder.fileSystem.MkdirAll(parentDirectory, recordDirectoryPermissionsConstant); directoryError != nil {
			return nil, fmt.Errorf(directoryFailureTemplateConstant, trimmedRecordFile, directoryError)
		}
	}

	if writeError := recorder.fileSystem.WriteFile(trimmedRecordFile, encoded, recordFilePermissionsConstant); writeError != nil {
		return nil, fmt.Errorf(writeFailureTemplateConstant, trimmedRecordFile, writeError)
	}

	recorder.logger.Info(recordWrittenLogMessageConstant,
		zap.String(logFieldRecordFileConstant, trimmedRecordFile),
		zap.Int(logFieldPathCountConstant, len(mergedPaths)),
	)
	return mergedPaths, nil
}

func (recorder *Recorder) load(recordFile string) []string {
	contents, readError := recorder.fileSystem.ReadFile(recordFile)
	if readError != nil {
		if !errors.Is(readError, fs.ErrNotExist) {
			recorder.logger.Warn(recordUnreadableLogMessageConstant, zap.String(logFieldRecordFileConstant, recordFile), zap.Error(readError))
		}
		return nil
	}

	var existingPaths []string
	if decodeError := json.Unmarshal(contents, &existingPaths); decodeError != nil {
		recorder.logger.Warn(recordMalformedLogMessageConstant, zap.String(logFieldRecordFileConstant, recordFile), zap.Error(decodeError))
		return nil
	}
	return existingPaths
}
