package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/repostat/internal/utils/path"
)

const (
	stubHomeDirectoryConstant = "/home/example"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		expectedPath  string
	}{
		{
			name:          "bare_tilde_resolves_to_home",
			candidatePath: "~",
			expectedPath:  stubHomeDirectoryConstant,
		},
		{
			name:          "tilde_prefix_joins_home",
			candidatePath: "~/Development",
			expectedPath:  filepath.Join(stubHomeDirectoryConstant, "Development"),
		},
		{
			name:          "nested_tilde_prefix_joins_home",
			candidatePath: "~/Development/projects",
			expectedPath:  filepath.Join(stubHomeDirectoryConstant, "Development", "projects"),
		},
		{
			name:          "absolute_path_unchanged",
			candidatePath: "/var/repositories",
			expectedPath:  "/var/repositories",
		},
		{
			name:          "relative_path_unchanged",
			candidatePath: "repositories",
			expectedPath:  "repositories",
		},
		{
			name:          "tilde_username_unchanged",
			candidatePath: "~otheruser/projects",
			expectedPath:  "~otheruser/projects",
		},
		{
			name:          "empty_path_unchanged",
			candidatePath: "",
			expectedPath:  "",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return stubHomeDirectoryConstant, nil
			})

			expandedPath := expander.Expand(testCase.candidatePath)

			require.Equal(testInstance, testCase.expectedPath, expandedPath)
		})
	}
}

func TestHomeExpanderExpandWithUnavailableHomeDirectory(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("home directory unavailable")
	})

	require.Equal(testInstance, "~/Development", expander.Expand("~/Development"))
	require.Equal(testInstance, "~", expander.Expand("~"))
}

func TestHomeExpanderResolvesHomeDirectoryOnce(testInstance *testing.T) {
	providerCallCount := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		providerCallCount++
		return stubHomeDirectoryConstant, nil
	})

	expander.Expand("~/first")
	expander.Expand("~/second")

	require.Equal(testInstance, 1, providerCallCount)
}
