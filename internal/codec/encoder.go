package codec

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tapedeck/api/internal/dsp"
)

// EncodeWAV serializes a mono buffer as 16-bit PCM WAV. Samples are
// clamped to [-1, 1] before conversion: the crackle stage can push
// values slightly past full scale and int16 wraparound would be far
// worse than a hard clip.
func EncodeWAV(buf *dsp.SampleBuffer) ([]byte, error) {
	if buf == nil || buf.Len() == 0 {
		return nil, ErrNoAudioData
	}

	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, buf.SampleRate, 16, 1, 1)

	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: buf.SampleRate},
		Data:           make([]int, buf.Len()),
		SourceBitDepth: 16,
	}
	for i, s := range buf.Data {
		ib.Data[i] = int(floatToInt16(s))
	}

	if err := enc.Write(ib); err != nil {
		return nil, fmt.Errorf("wav encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("wav encode: %w", err)
	}
	return ws.buf, nil
}

func floatToInt16(s float64) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(math.Round(s * 32767))
}

// memWriteSeeker backs the wav encoder, which needs a WriteSeeker to
// patch chunk sizes on Close.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (ws *memWriteSeeker) Write(p []byte) (int, error) {
	if need := ws.pos + len(p); need > len(ws.buf) {
		grown := make([]byte, need)
		copy(grown, ws.buf)
		ws.buf = grown
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(ws.pos) + offset
	case io.SeekEnd:
		pos = int64(len(ws.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position")
	}
	ws.pos = int(pos)
	return pos, nil
}
