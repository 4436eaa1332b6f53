package kws

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/hif.go/pkg/cli/sh"
	"github.com/robotalks/hif.go/pkg/hif"
	"github.com/robotalks/hif.go/pkg/modes"
	"github.com/robotalks/hif.go/pkg/sim"
)

// LoadSamples reads raw 16-bit little-endian mono PCM, e.g. produced by
// `sox in.wav -t raw -e signed -b 16 -c 1 -r 16000 out.pcm`, and fits
// it to modes.SampleLength. Empty file name generates a test tone.
func LoadSamples(fn string) ([]int16, error) {
	if fn == "" {
		return sim.DefaultRecord(modes.SampleLength), nil
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%s: odd size %d for 16-bit samples", fn, len(data))
	}
	samples := make([]int16, len(data)/2)
	for n := range samples {
		samples[n] = int16(binary.LittleEndian.Uint16(data[n*2:]))
	}
	return modes.FitSamples(samples), nil
}

func printResult(c *ishell.Context, names []string, vectors ...hif.Vector) {
	s := sh.ShellFrom(c)
	if s.OutputC && !s.OutputJSON {
		for n, v := range vectors {
			text := sh.VectorToC(v.Values)
			if names[n] == "mfccs" {
				text = sh.MatrixToC(v.Values, modes.MfccPerFrame)
			}
			c.Printf("// %s: %s[%d] tag=0x%02x\n%s\n", names[n], v.Format, len(v.Values), v.Tag, text)
		}
		return
	}
	if s.OutputJSON {
		out := make(map[string]sh.VectorJSON, len(vectors))
		for n, v := range vectors {
			out[names[n]] = sh.NewVectorJSON(v)
		}
		sh.Print(c, out, "")
		return
	}
	for n, v := range vectors {
		if len(v.Values) > 16 {
			c.Printf("%s: %s[%d] tag=0x%02x %v ...\n", names[n], v.Format, len(v.Values), v.Tag, v.Values[:16])
			continue
		}
		c.Printf("%s: %s\n", names[n], v)
	}
}

func fileArg(c *ishell.Context) string {
	if len(c.Args) > 0 {
		return c.Args[0]
	}
	return ""
}

var (
	// SingleInferenceCmd sends a net input and prints the prediction.
	SingleInferenceCmd = ishell.Cmd{
		Name:    "kws.single",
		Aliases: []string{"k1"},
		Help:    "FORMAT VALUES...",
		Func: sh.MustBeOpened(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FORMAT required"))
				return
			}
			args := append([]string{c.Args[0], "0"}, c.Args[1:]...)
			input, err := sh.ParseVector(args)
			if err != nil {
				c.Err(err)
				return
			}
			var pred hif.Vector
			if sh.Do(c, func(ctx context.Context, d *modes.Dispatcher) (err error) {
				pred, err = d.SingleInference(ctx, input)
				return
			}) == nil {
				printResult(c, []string{"prediction"}, pred)
			}
		}),
	}

	// MfccFramesCmd streams audio frames and prints MFCCs and prediction.
	MfccFramesCmd = ishell.Cmd{
		Name:    "kws.frames",
		Aliases: []string{"kf"},
		Help:    "[PCM-FILE]",
		Func: sh.MustBeOpened(func(c *ishell.Context) {
			samples, err := LoadSamples(fileArg(c))
			if err != nil {
				c.Err(err)
				return
			}
			frames := modes.SplitFrames(samples, modes.FrameLength, modes.FrameStep)
			var r *modes.FrameResult
			if sh.Do(c, func(ctx context.Context, d *modes.Dispatcher) (err error) {
				r, err = d.MfccAndInference(ctx, frames)
				return
			}) == nil {
				printResult(c, []string{"mfccs", "prediction"}, r.Mfccs, r.Prediction)
			}
		}),
	}

	// MicCmd lets the device record and prints what it computed.
	MicCmd = ishell.Cmd{
		Name:    "kws.mic",
		Aliases: []string{"km"},
		Help:    "[PCM-OUTPUT-FILE]",
		Func: sh.MustBeOpened(func(c *ishell.Context) {
			var r *modes.MicResult
			if sh.Do(c, func(ctx context.Context, d *modes.Dispatcher) (err error) {
				r, err = d.MicAndInference(ctx)
				return
			}) != nil {
				return
			}
			if fn := fileArg(c); fn != "" {
				if err := SaveSamples(fn, r.Samples.Int16s()); err != nil {
					c.Err(err)
					return
				}
			}
			printResult(c, []string{"samples", "mfccs", "prediction"}, r.Samples, r.Mfccs, r.Prediction)
		}),
	}
)

// SaveSamples writes samples as raw 16-bit little-endian PCM.
func SaveSamples(fn string, samples []int16) error {
	data := make([]byte, len(samples)*2)
	for n, s := range samples {
		binary.LittleEndian.PutUint16(data[n*2:], uint16(s))
	}
	return os.WriteFile(fn, data, 0644)
}

func init() {
	sh.AddCmds(
		&SingleInferenceCmd,
		&MfccFramesCmd,
		&MicCmd,
	)
}
