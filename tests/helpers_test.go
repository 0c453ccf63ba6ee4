package tests_test

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectField returns a comparator verifying the output contains the exact
// key: value line.
func expectField(key, value string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		expected := fmt.Sprintf("%s: %s", key, value)

		for line := range strings.Lines(stdout) {
			if strings.TrimSpace(strings.TrimSuffix(line, "\n")) == expected {
				return
			}
		}

		testing.Log(fmt.Sprintf("expected line %q not found in output:\n%s", expected, stdout))
		testing.Fail()
	}
}

// expectPositive returns a comparator verifying the given key carries a
// numeric value greater than zero.
func expectPositive(key string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		value, found := fieldValue(stdout, key)
		if !found {
			testing.Log(fmt.Sprintf("key %q not found in output:\n%s", key, stdout))
			testing.Fail()

			return
		}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed <= 0 {
			testing.Log(fmt.Sprintf("expected %q > 0, got %q in output:\n%s", key, value, stdout))
			testing.Fail()
		}
	}
}

// expectZero returns a comparator verifying the given key carries a zero
// numeric value.
func expectZero(key string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		value, found := fieldValue(stdout, key)
		if !found {
			testing.Log(fmt.Sprintf("key %q not found in output:\n%s", key, stdout))
			testing.Fail()

			return
		}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil || parsed != 0 {
			testing.Log(fmt.Sprintf("expected %q = 0, got %q in output:\n%s", key, value, stdout))
			testing.Fail()
		}
	}
}

// fieldValue scans key: value lines for the first occurrence of key.
func fieldValue(stdout, key string) (string, bool) {
	prefix := key + ":"

	for line := range strings.Lines(stdout) {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\n"))
		if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}

	return "", false
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}
