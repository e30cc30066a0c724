// SPDX-License-Identifier: MIT
package analyze

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV reads a PCM WAV file and returns normalized mono samples in
// [-1, 1] plus the file's sample rate. Multi-channel files are reduced
// to mono by taking the first channel.
func DecodeWAV(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("%s is not a valid wav file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode wav data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("%s has no usable channel layout", path)
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := range frames {
		samples[i] = float64(buf.Data[i*channels]) / scale
	}
	return samples, buf.Format.SampleRate, nil
}

// EncodeWAV writes mono float samples as a 16-bit PCM WAV file. Samples
// are clamped to [-1, 1] before conversion.
func EncodeWAV(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	encoder := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := encoder.Write(buf); err != nil {
		encoder.Close()
		f.Close()
		return fmt.Errorf("failed to write wav data: %w", err)
	}

	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize wav file: %w", err)
	}
	return f.Close()
}
