// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(r io.Reader) (Source, error)

func (f DecoderFunc) Decode(r io.Reader) (Source, error) { return f(r) }

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg vorbis").
// File extensions can be bound to a key so paths resolve to a decoder.
type Registry struct {
	codecs map[string]Decoder
	exts   map[string]string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
		mtx:    &sync.Mutex{},
	}
}

// Register binds d to format and, optionally, to file extensions such as
// ".wav". Extensions are matched case-insensitively.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[format] = d
	for _, ext := range exts {
		r.exts[normalizeExt(ext)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// ForPath resolves the decoder registered for path's extension.
func (r *Registry) ForPath(path string) (string, Decoder, error) {
	ext := normalizeExt(filepath.Ext(path))

	r.mtx.Lock()
	defer r.mtx.Unlock()

	format, ok := r.exts[ext]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return format, r.codecs[format], nil
}

// Formats lists the registered format keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ReadAll drains src into one interleaved buffer. It does not close src.
func ReadAll(src Source) ([]float32, error) {
	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	if ch := src.Channels(); ch > 0 {
		size -= size % ch
		if size == 0 {
			size = ch
		}
	}

	var out []float32
	buf := make([]float32, size)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}
		if n == 0 {
			return out, nil
		}
	}
}
