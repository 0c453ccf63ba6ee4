package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"

	"github.com/farcloser/colloquy/tests/testutils"
)

func TestAnalyzeCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "analyze without arguments fails",
			Command:     test.Command("analyze"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze nonexistent file fails",
			Command:     test.Command("analyze", "/nonexistent/path/file.wav"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze clean file reports metadata and metrics",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectField("sample_rate", "44100"),
						expectContains("peak_db:"),
						expectContains("overall_db:"),
					),
				}
			},
		},
		{
			Description: "json output is selectable",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--format", "json", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains(`"sample_rate"`),
						expectContains(`"status"`),
					),
				}
			},
		},
		{
			Description: "unknown mode is rejected",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--mode", "turbo", data.Labels().Get("file"))
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
	}

	testCase.Run(t)
}

func TestClippingMetric(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "hard clipped file reports clipped samples",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.ClippedHard(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectPositive("clipped_pct"),
				}
			},
		},
		{
			Description: "clean file reports no clipping",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.Genuine16bit44k(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectZero("clipped_pct"),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestStereoClassification(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "duplicated channels classify as mono",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.FakeStereoMonoDuplicate(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectField("type", "mono"),
				}
			},
		},
		{
			Description: "independent channels classify as true stereo",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.TrueStereoDifferentChannels(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectField("type", "true_stereo"),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestSilenceMetric(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "long silent intro is measured",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.SilenceLongIntro(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectPositive("leading_sec"),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestNoiseFloorMetric(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "noise floor is reported for noisy input",
			Setup: func(data test.Data, helpers test.Helpers) {
				data.Labels().Set("file", agar.NoiseFloorHigh(data, helpers))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("overall_db:"),
						expectContains("per_channel_db:"),
					),
				}
			},
		},
	}

	testCase.Run(t)
}

func TestFilenameOnlyMode(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "filename-only skips decoding entirely",
			Command: test.Command(
				"analyze", "--mode", "filename-only",
				"--filename-pattern", "bilingual",
				"/tmp/conv01-en-user-u1-agent-a1.wav",
			),
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectField("status", "warning"),
				}
			},
		},
		{
			Description: "malformed name fails validation",
			Command: test.Command(
				"analyze", "--mode", "filename-only",
				"--filename-pattern", "bilingual",
				"/tmp/Recording Final (2).wav",
			),
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output:   expectField("status", "fail"),
				}
			},
		},
	}

	testCase.Run(t)
}
