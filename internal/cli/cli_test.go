package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posture-detector-go/pkg/models"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "posturectl", cmd.Use)

	for _, name := range []string{"classify", "replay"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	neck := cmd.PersistentFlags().Lookup("neck-threshold")
	require.NotNil(t, neck)
	assert.Equal(t, "20", neck.DefValue)

	back := cmd.PersistentFlags().Lookup("back-threshold")
	require.NotNil(t, back)
	assert.Equal(t, "15", back.DefValue)
}

func TestClassify_TextGolden(t *testing.T) {
	out, err := execute(t, "", "classify", "--file", "testdata/slouch.yaml")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "classify_slouch", []byte(out))
}

func TestClassify_JSON(t *testing.T) {
	out, err := execute(t, "", "classify", "--file", "testdata/upright.json", "--format", "json")
	require.NoError(t, err)

	var resp models.ClassifyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "good", resp.Status)
	require.NotNil(t, resp.NeckAngle)
	assert.Equal(t, 0.0, *resp.NeckAngle)
	assert.Empty(t, resp.Reasons)
}

func TestClassify_Stdin(t *testing.T) {
	out, err := execute(t, `{"keypoints": null}`, "classify", "--file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "unclassifiable")
}

func TestClassify_CustomThresholds(t *testing.T) {
	// Наклон спины 21.8° не нарушает порог 25°
	out, err := execute(t, "", "classify", "--file", "testdata/slouch.yaml",
		"--format", "json", "--neck-threshold", "50", "--back-threshold", "25")
	require.NoError(t, err)

	var resp models.ClassifyResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "good", resp.Status)
	assert.Equal(t, 50.0, resp.Thresholds.NeckDegrees)
}

func TestClassify_FailOnBad(t *testing.T) {
	_, err := execute(t, "", "classify", "--file", "testdata/slouch.yaml", "--fail-on-bad")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = execute(t, "", "classify", "--file", "testdata/upright.json", "--fail-on-bad")
	require.NoError(t, err)
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"classify", "--file", "testdata/does-not-exist.yaml"}},
		{"bad format", []string{"classify", "--file", "testdata/slouch.yaml", "--format", "xml"}},
		{"bad threshold", []string{"classify", "--file", "testdata/slouch.yaml", "--neck-threshold", "-5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestReplay_TextGolden(t *testing.T) {
	out, err := execute(t, "", "replay", "--file", "testdata/session.yaml")
	require.NoError(t, err)

	newGoldie(t).Assert(t, "replay_session", []byte(out))
}

func TestReplay_JSON(t *testing.T) {
	out, err := execute(t, "", "replay", "--file", "testdata/session.yaml", "--format", "json", "--workers", "1")
	require.NoError(t, err)

	var result ReplayResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Frames, 4)
	assert.Equal(t, []string{"neck", "back"}, result.Frames[1].Reasons)
	assert.Equal(t, int64(100), result.Frames[3].TimestampMs)
	assert.Equal(t, 4, result.Summary.TotalFrames)
	assert.Equal(t, 33.3, result.Summary.GoodPercentage)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
