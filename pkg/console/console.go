// Package console is a line oriented front end for the prediction pipeline.
// Each line holds irradiation, module temperature, ambient temperature and a
// timestamp; an empty line predicts with the default inputs.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/levenlabs/go-lflag"
	"github.com/solarcast/solarcast/pkg/features"
	"github.com/solarcast/solarcast/pkg/log"
	"github.com/solarcast/solarcast/pkg/types"
)

// DefaultInput is used for an empty line.
var DefaultInput = types.RawInput{
	IrradiationWM2:      500.0,
	ModuleTemperatureC:  25.0,
	AmbientTemperatureC: 20.0,
	Timestamp:           "2025-07-18 14:00",
}

// Predictor is the pipeline entry point the console calls.
type Predictor interface {
	Predict(ctx context.Context, in types.RawInput) types.Result
}

// Console reads requests and renders results.
type Console struct {
	predictor Predictor
	unit      string
	prompt    string
}

// Configured registers the display flags and returns a Console over p.
func Configured(p Predictor) *Console {
	unit := lflag.String("power-unit", "kW", "Unit label shown next to predicted DC power")

	c := New(p, "kW")

	lflag.Do(func() {
		c.unit = *unit
	})

	return c
}

// New returns a Console that labels predictions with unit.
func New(p Predictor, unit string) *Console {
	return &Console{predictor: p, unit: unit, prompt: "> "}
}

// Run processes lines from in until EOF, "quit" or ctx is done. Cancelling
// ctx returns immediately even while a read is blocked.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Solar Power Generation Forecast\n")
	c.printUsage(out)

	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, c.prompt)

		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-lines:
			if !ok {
				return c.finish(ctx, readErr)
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "quit", "exit":
			return nil
		case "help", "?":
			c.printUsage(out)
			continue
		}

		input, err := ParseLine(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		c.render(out, c.predictor.Predict(ctx, input))
	}
}

// readLines scans in on its own goroutine. The scanner's error is sent on the
// returned error channel before lines is closed, unless ctx ended the read.
// A goroutine blocked in Read stays blocked until in returns.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func (c *Console) finish(ctx context.Context, readErr <-chan error) error {
	var err error
	select {
	case err = <-readErr:
	default:
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to read input", slog.Any("error", err))
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (c *Console) render(out io.Writer, res types.Result) {
	if res.IsOK() {
		fmt.Fprintf(out, "Predicted DC Power (%s): %.2f\n", c.unit, res.Value)
		return
	}
	switch res.Reason {
	case types.ErrorReasonParse:
		fmt.Fprintf(out, "Error: %s\n", res.Message)
	default:
		fmt.Fprintf(out, "Internal error: prediction unavailable (%s)\n", res.Reason)
	}
}

func (c *Console) printUsage(out io.Writer) {
	fmt.Fprintf(out, "Enter: <irradiation W/m²> <module temp °C> <ambient temp °C> <%s>\n", features.TimestampFormat)
	fmt.Fprintf(out, "Empty line uses %.1f %.1f %.1f %s. Type quit to exit.\n",
		DefaultInput.IrradiationWM2,
		DefaultInput.ModuleTemperatureC,
		DefaultInput.AmbientTemperatureC,
		DefaultInput.Timestamp,
	)
}

// ParseLine splits a request line into a RawInput. The timestamp is everything
// after the third number and is passed through untouched.
func ParseLine(line string) (types.RawInput, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return DefaultInput, nil
	}

	var nums [3]float64
	names := [3]string{"irradiation", "module temperature", "ambient temperature"}
	rest := line
	for i := range nums {
		var field string
		field, rest = cutField(rest)
		if field == "" {
			return types.RawInput{}, fmt.Errorf("missing %s", names[i])
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return types.RawInput{}, fmt.Errorf("invalid %s: %q", names[i], field)
		}
		nums[i] = v
	}
	ts := strings.TrimSpace(rest)
	if ts == "" {
		return types.RawInput{}, fmt.Errorf("missing timestamp (%s)", features.TimestampFormat)
	}
	return types.RawInput{
		IrradiationWM2:      nums[0],
		ModuleTemperatureC:  nums[1],
		AmbientTemperatureC: nums[2],
		Timestamp:           ts,
	}, nil
}

func cutField(s string) (string, string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}
