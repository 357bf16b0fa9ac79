package utils_test

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repostat/internal/utils"
)

const (
	testSynchronizedWriterRowTemplateConstant = "row-%02d payload payload payload\n"
	testSynchronizedWriterRowCountConstant    = 32
)

func TestSynchronizedWriterKeepsConcurrentRowsWhole(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	synchronizedWriter := utils.NewSynchronizedWriter(outputBuffer)

	waitGroup := sync.WaitGroup{}
	for rowIndex := 0; rowIndex < testSynchronizedWriterRowCountConstant; rowIndex++ {
		waitGroup.Add(1)
		go func(currentRowIndex int) {
			defer waitGroup.Done()
			rowContent := fmt.Sprintf(testSynchronizedWriterRowTemplateConstant, currentRowIndex)
			_, writeError := synchronizedWriter.Write([]byte(rowContent))
			require.NoError(testInstance, writeError)
		}(rowIndex)
	}
	waitGroup.Wait()

	outputLines := strings.Split(strings.TrimRight(outputBuffer.String(), "\n"), "\n")
	require.Len(testInstance, outputLines, testSynchronizedWriterRowCountConstant)
	for _, outputLine := range outputLines {
		require.Regexp(testInstance, `^row-\d{2} payload payload payload$`, outputLine)
	}
}

func TestSynchronizedWriterReturnsSameInstanceWhenAlreadyWrapped(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	firstWriter := utils.NewSynchronizedWriter(outputBuffer)
	secondWriter := utils.NewSynchronizedWriter(firstWriter)
	require.Same(testInstance, firstWriter, secondWriter)
}
