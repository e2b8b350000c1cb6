package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repotree/internal/utils"
)

const (
	testEnvironmentPrefixConstant              = "TESTREPOTREE"
	testLogLevelKeyConstant                    = "common.log_level"
	testLogLevelEnvironmentVariableConstant    = "TESTREPOTREE_COMMON_LOG_LEVEL"
	testSkipListEnvironmentVariableConstant    = "TESTREPOTREE_TOOLS_REPOSITORIES_SKIP"
	testDefaultLogLevelConstant                = "info"
	testConfigFileNameConstant                 = "config.yaml"
	testConfigContentTemplateConstant          = "common:\n  log_level: %s\n"
	testConfigurationNameConstant              = "config"
	testConfigurationTypeConstant              = "yaml"
	testUserConfigurationDirectoryNameConstant = ".repotree"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
	Tools  configurationToolsFixture  `mapstructure:"tools"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationToolsFixture struct {
	Repositories configurationRepositoriesFixture `mapstructure:"repositories"`
}

type configurationRepositoriesFixture struct {
	Manifest string   `mapstructure:"manifest"`
	Skip     []string `mapstructure:"skip"`
}

func TestConfigurationLoaderLayersSources(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedLogLevel    string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
	}{
		{name: "defaults_apply", expectedLogLevel: testDefaultLogLevelConstant},
		{name: "embedded_overrides_defaults", embeddedLogLevel: "debug", expectedLogLevel: "debug"},
		{name: "file_overrides_embedded", embeddedLogLevel: "debug", fileLogLevel: "warn", expectedLogLevel: "warn"},
		{name: "environment_overrides_file", embeddedLogLevel: "debug", fileLogLevel: "warn", environmentLogLevel: "error", expectedLogLevel: "error"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			temporaryDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				configurationFilePath = filepath.Join(temporaryDirectory, testConfigFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)), 0o600))
			}
			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testLogLevelEnvironmentVariableConstant, testCase.environmentLogLevel)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{temporaryDirectory})
			if len(testCase.embeddedLogLevel) > 0 {
				configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedLogLevel)), testConfigurationTypeConstant)
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderSearchesPaths(testInstance *testing.T) {
	workingDirectoryPath := testInstance.TempDir()
	userConfigurationDirectoryPath := filepath.Join(testInstance.TempDir(), testUserConfigurationDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(userConfigurationDirectoryPath, 0o755))

	configurationFilePath := filepath.Join(userConfigurationDirectoryPath, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(fmt.Sprintf(testConfigContentTemplateConstant, "debug")), 0o600))

	configurationLoader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{workingDirectoryPath, userConfigurationDirectoryPath},
	)

	loadedConfiguration := configurationFixture{}
	metadata, loadError := configurationLoader.LoadConfiguration("", map[string]any{testLogLevelKeyConstant: testDefaultLogLevelConstant}, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "debug", loadedConfiguration.Common.LogLevel)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &loadedConfiguration)
	require.Error(testInstance, loadError)
}

func TestConfigurationLoaderSplitsListsFromEnvironment(testInstance *testing.T) {
	testInstance.Setenv(testSkipListEnvironmentVariableConstant, "docs,infra")

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})
	configurationLoader.SetEmbeddedConfiguration([]byte("tools:\n  repositories:\n    manifest: repositories.yaml\n    skip: []\n"), testConfigurationTypeConstant)

	loadedConfiguration := configurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration("", nil, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "repositories.yaml", loadedConfiguration.Tools.Repositories.Manifest)
	require.Equal(testInstance, []string{"docs", "infra"}, loadedConfiguration.Tools.Repositories.Skip)
}
