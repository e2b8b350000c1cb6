package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/repotree/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/builder"

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "bare_tilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/work/repositories.yaml", expectedPath: filepath.Join(testHomeDirectoryConstant, "work", "repositories.yaml")},
		{name: "relative_path", input: "repositories.yaml", expectedPath: "repositories.yaml"},
		{name: "other_user", input: "~operator/repositories.yaml", expectedPath: "~operator/repositories.yaml"},
		{name: "empty", input: "", expectedPath: ""},
	}

	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return testHomeDirectoryConstant, nil })
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderLeavesPathWhenLookupFails(testInstance *testing.T) {
	lookups := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		lookups++
		return "", errors.New("no home directory")
	})

	require.Equal(testInstance, "~/repositories.yaml", expander.Expand("~/repositories.yaml"))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, lookups)
}
