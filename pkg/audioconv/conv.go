package audioconv

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

// TargetRate is the sample rate whisper expects.
const TargetRate = 16000

type Options struct {
	MaxSamples int
}

// clip is interleaved float32 audio as it came out of a decoder.
type clip struct {
	samples  []float32
	channels int
	rate     int
}

type decoder func(io.ReadSeeker) (clip, error)

var decodersByExt = map[string][]decoder{
	".wav": {decodeWAV},
	".mp3": {decodeMP3},
	".ogg": {decodeVorbis, decodeOpus},
	".oga": {decodeVorbis, decodeOpus},
}

// FileToPCM16k decodes an audio file into mono float32 samples at 16 kHz.
func FileToPCM16k(_ context.Context, path string, opt Options) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoders, ok := decodersByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		decoders, err = sniff(f)
		if err != nil {
			return nil, err
		}
	}

	var errs []error
	for _, dec := range decoders {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		c, err := dec(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return c.normalize(opt), nil
	}

	return nil, fmt.Errorf("decode %s: %w", path, errors.Join(errs...))
}

func sniff(r io.ReadSeeker) ([]decoder, error) {
	magic, _ := bufio.NewReader(r).Peek(4)
	switch {
	case len(magic) < 4:
		return nil, errors.New("file too short")
	case string(magic) == "RIFF":
		return []decoder{decodeWAV}, nil
	case string(magic) == "OggS":
		return []decoder{decodeVorbis, decodeOpus}, nil
	case string(magic[:3]) == "ID3", magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		return []decoder{decodeMP3}, nil
	default:
		return nil, fmt.Errorf("unsupported audio format (magic %q)", magic)
	}
}

func (c clip) normalize(opt Options) []float32 {
	x := downmix(c.samples, c.channels)
	x = resample(x, c.rate, TargetRate)
	if opt.MaxSamples > 0 && len(x) > opt.MaxSamples {
		x = x[:opt.MaxSamples]
	}
	return x
}

func decodeWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, errors.New("invalid wav")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, fmt.Errorf("wav: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return clip{}, errors.New("empty wav")
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = 16
	}
	scale := 1.0 / float64(int64(1)<<(depth-1))

	out := clip{samples: make([]float32, len(buf.Data)), channels: 1, rate: int(dec.SampleRate)}
	for i, v := range buf.Data {
		out.samples[i] = float32(math.Max(-1, math.Min(1, float64(v)*scale)))
	}
	if buf.Format != nil {
		out.channels = buf.Format.NumChannels
		out.rate = buf.Format.SampleRate
	}

	return out, nil
}

func decodeMP3(r io.ReadSeeker) (clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return clip{}, fmt.Errorf("mp3: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return clip{}, fmt.Errorf("mp3: %w", err)
	}

	// go-mp3 always yields 16-bit little endian stereo.
	out := clip{samples: make([]float32, len(raw)/2), channels: 2, rate: dec.SampleRate()}
	for i := range out.samples {
		out.samples[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}

	return out, nil
}

func decodeVorbis(r io.ReadSeeker) (clip, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return clip{}, fmt.Errorf("vorbis: %w", err)
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return clip{}, errors.New("invalid ogg/vorbis stream")
	}
	return clip{samples: pcm, channels: format.Channels, rate: format.SampleRate}, nil
}

func decodeOpus(r io.ReadSeeker) (clip, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return clip{}, fmt.Errorf("opus: %w", err)
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	// opus always decodes at 48 kHz
	out := clip{channels: ch, rate: 48000}
	buf := make([]int16, 24000*ch)
	for {
		n, err := dec.Read(buf)
		for _, v := range buf[:n*ch] {
			out.samples = append(out.samples, float32(v)/32768)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return clip{}, fmt.Errorf("opus: %w", err)
		}
	}

	return out, nil
}

func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	out := make([]float32, len(in)/channels)
	for i := range out {
		var sum float32
		for _, v := range in[i*channels : (i+1)*channels] {
			sum += v
		}
		out[i] = sum / float32(channels)
	}
	return out
}

// resample converts between rates with linear interpolation.
func resample(in []float32, from, to int) []float32 {
	if from <= 0 || from == to || len(in) == 0 {
		return in
	}
	ratio := float64(to) / float64(from)
	out := make([]float32, int(math.Ceil(float64(len(in))*ratio)))
	last := len(in) - 1
	for i := range out {
		pos := float64(i) / ratio
		j := int(pos)
		if j >= last {
			out[i] = in[last]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = in[j]*(1-frac) + in[j+1]*frac
	}
	return out
}
