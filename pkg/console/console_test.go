package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/solarcast/solarcast/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) Predict(ctx context.Context, in types.RawInput) types.Result {
	args := m.Called(ctx, in)
	return args.Get(0).(types.Result)
}

func TestParseLine(t *testing.T) {
	t.Run("empty uses defaults", func(t *testing.T) {
		in, err := ParseLine("   ")
		require.NoError(t, err)
		assert.Equal(t, DefaultInput, in)
	})

	t.Run("full line", func(t *testing.T) {
		in, err := ParseLine("  812.5 41  28.25   2025-07-18 14:00 ")
		require.NoError(t, err)
		assert.Equal(t, types.RawInput{
			IrradiationWM2:      812.5,
			ModuleTemperatureC:  41,
			AmbientTemperatureC: 28.25,
			Timestamp:           "2025-07-18 14:00",
		}, in)
	})

	t.Run("timestamp passed through", func(t *testing.T) {
		in, err := ParseLine("1 2 3 07/18/2025 2:00 PM")
		require.NoError(t, err)
		assert.Equal(t, "07/18/2025 2:00 PM", in.Timestamp)
	})

	for line, want := range map[string]string{
		"abc 1 2 2025-07-18 14:00": "invalid irradiation",
		"1 x 2 2025-07-18 14:00":   "invalid module temperature",
		"1 2":                      "missing ambient temperature",
		"1 2 3":                    "missing timestamp",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseLine(line)
			assert.ErrorContains(t, err, want)
		})
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	p := &mockPredictor{}
	p.On("Predict", mock.Anything, DefaultInput).Return(types.OK(1234.567)).Once()
	p.On("Predict", mock.Anything, types.RawInput{IrradiationWM2: 1, ModuleTemperatureC: 2, AmbientTemperatureC: 3, Timestamp: "2025-13-01 10:00"}).
		Return(types.Failure(types.ErrorReasonParse, "Invalid date format. Please use YYYY-MM-DD HH:MM")).Once()
	p.On("Predict", mock.Anything, types.RawInput{IrradiationWM2: 4, ModuleTemperatureC: 5, AmbientTemperatureC: 6, Timestamp: "2025-07-18 14:00"}).
		Return(types.Failure(types.ErrorReasonInference, "inference failed at model: feature count mismatch")).Once()

	in := strings.NewReader(strings.Join([]string{
		"",
		"1 2 3 2025-13-01 10:00",
		"4 5 6 2025-07-18 14:00",
		"bad input",
		"help",
		"quit",
		"7 8 9 2025-07-18 14:00",
	}, "\n"))
	var out bytes.Buffer

	c := New(p, "kW")
	require.NoError(t, c.Run(ctx, in, &out))

	s := out.String()
	assert.Contains(t, s, "Predicted DC Power (kW): 1234.57")
	assert.Contains(t, s, "Error: Invalid date format. Please use YYYY-MM-DD HH:MM")
	assert.Contains(t, s, "Internal error: prediction unavailable (inference)")
	assert.NotContains(t, s, "feature count mismatch")
	assert.Contains(t, s, `Error: invalid irradiation: "bad"`)
	assert.Equal(t, 2, strings.Count(s, "Enter: <irradiation"))
	p.AssertExpectations(t)
}

func TestRunUnitLabel(t *testing.T) {
	p := &mockPredictor{}
	p.On("Predict", mock.Anything, DefaultInput).Return(types.OK(10))

	var out bytes.Buffer
	require.NoError(t, New(p, "W").Run(context.Background(), strings.NewReader("\n"), &out))
	assert.Contains(t, out.String(), "Predicted DC Power (W): 10.00")
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &mockPredictor{}
	var out bytes.Buffer
	require.NoError(t, New(p, "kW").Run(ctx, strings.NewReader("\n\n"), &out))
	p.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
}

func TestRunCanceledWhileReading(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &mockPredictor{}
	p.On("Predict", mock.Anything, DefaultInput).Return(types.OK(10)).Once()

	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- New(p, "kW").Run(ctx, pr, &out)
	}()

	// a line is processed normally before the reader goes quiet
	_, err := pw.Write([]byte("\n"))
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the context was canceled")
	}
	assert.Contains(t, out.String(), "Predicted DC Power (kW): 10.00")
	p.AssertExpectations(t)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("tty gone")
}

func TestRunReadError(t *testing.T) {
	p := &mockPredictor{}
	var out bytes.Buffer
	err := New(p, "kW").Run(context.Background(), failingReader{}, &out)
	assert.ErrorContains(t, err, "failed to read input: tty gone")
}
