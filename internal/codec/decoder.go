package codec

import (
	"bytes"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	"github.com/go-audio/wav"

	"github.com/tapedeck/api/internal/dsp"
)

// Decode sniffs the container from the leading bytes and produces a
// mono SampleBuffer. Multichannel input is downmixed by channel
// average before processing.
func Decode(data []byte) (*dsp.SampleBuffer, error) {
	if len(data) < 4 {
		return nil, ErrNoAudioData
	}

	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return decodeWAV(data)
	case bytes.HasPrefix(data, []byte("OggS")):
		return decodeOgg(data)
	case bytes.HasPrefix(data, []byte("ID3")) || (data[0] == 0xFF && data[1]&0xE0 == 0xE0):
		return decodeMP3(data)
	default:
		return nil, ErrUnknownFormat
	}
}

func decodeWAV(data []byte) (*dsp.SampleBuffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: invalid file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}
	if pcm == nil || len(pcm.Data) == 0 {
		return nil, ErrNoAudioData
	}

	channels := pcm.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := pcm.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(pcm.Data) / channels
	buf := dsp.NewSampleBuffer(frames, pcm.Format.SampleRate)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(pcm.Data[i*channels+c]) / scale
		}
		buf.Data[i] = sum / float64(channels)
	}
	return buf, nil
}

func decodeMP3(data []byte) (*dsp.SampleBuffer, error) {
	dec, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	// go-mp3 always yields 16-bit little-endian stereo frames.
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	frames := len(raw) / 4
	if frames == 0 {
		return nil, ErrNoAudioData
	}

	buf := dsp.NewSampleBuffer(frames, dec.SampleRate())
	for i := 0; i < frames; i++ {
		left := int16(uint16(raw[4*i]) | uint16(raw[4*i+1])<<8)
		right := int16(uint16(raw[4*i+2]) | uint16(raw[4*i+3])<<8)
		buf.Data[i] = (float64(left) + float64(right)) / 2 / 32768.0
	}
	return buf, nil
}

func decodeOgg(data []byte) (*dsp.SampleBuffer, error) {
	samples, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("ogg: %w", err)
	}

	channels := format.Channels
	if channels < 1 {
		channels = 1
	}
	frames := len(samples) / channels
	if frames == 0 {
		return nil, ErrNoAudioData
	}

	buf := dsp.NewSampleBuffer(frames, format.SampleRate)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(samples[i*channels+c])
		}
		buf.Data[i] = sum / float64(channels)
	}
	return buf, nil
}
