package modes

import "github.com/robotalks/hif.go/pkg/hif"

// Audio framing used by the keyword spotting net.
const (
	SampleRate     = 16000
	SampleSeconds  = 4
	FrameLength    = 1024
	FrameStep      = FrameLength
	MfccPerFrame   = 13
	SampleLength   = SampleRate * SampleSeconds
	FramesPerInput = 1 + (SampleLength-FrameLength)/FrameStep
)

// FitSamples cuts or zero pads samples to SampleLength.
func FitSamples(samples []int16) []int16 {
	out := make([]int16, SampleLength)
	copy(out, samples)
	return out
}

// SplitFrames cuts samples into int16 frames of length frameLen every
// step samples. A trailing partial frame is dropped.
func SplitFrames(samples []int16, frameLen, step int) []hif.Vector {
	if frameLen <= 0 || step <= 0 || len(samples) < frameLen {
		return nil
	}
	count := 1 + (len(samples)-frameLen)/step
	frames := make([]hif.Vector, count)
	for n := range frames {
		frames[n] = hif.Int16Vector(TagInput, samples[n*step:n*step+frameLen])
	}
	return frames
}
