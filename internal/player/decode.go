package player

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
)

// Format identifies a supported audio container.
type Format string

const (
	FormatMP3  Format = "MP3"
	FormatFLAC Format = "FLAC"
	FormatWAV  Format = "WAV"
)

// memFile is an in-memory, seekable audio payload.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// detectFormat sniffs the container from its leading bytes. Anything that is
// neither FLAC nor RIFF/WAVE is handed to the MP3 decoder, which accepts raw
// frames as well as ID3-tagged files.
func detectFormat(data []byte) Format {
	body := data[id3v2Size(data):]
	switch {
	case bytes.HasPrefix(body, []byte("fLaC")):
		return FormatFLAC
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	default:
		return FormatMP3
	}
}

// id3v2Size returns the length of a leading ID3v2 tag, or 0 if there is none.
// Some taggers prepend ID3v2 to FLAC files, which the FLAC decoder rejects.
func id3v2Size(data []byte) int {
	if len(data) < 10 || string(data[0:3]) != "ID3" {
		return 0
	}
	// Syncsafe integer: 7 bits per byte.
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	return min(10+size, len(data))
}

// decode turns a downloaded payload into a seekable beep streamer.
func decode(data []byte) (beep.StreamSeekCloser, beep.Format, Format, error) {
	if len(data) == 0 {
		return nil, beep.Format{}, "", fmt.Errorf("decode: empty payload")
	}

	format := detectFormat(data)
	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)
	switch format {
	case FormatFLAC:
		streamer, bf, err = flac.Decode(memFile{bytes.NewReader(data[id3v2Size(data):])})
	case FormatWAV:
		streamer, bf, err = wav.Decode(memFile{bytes.NewReader(data)})
	default:
		streamer, bf, err = decodeMP3(memFile{bytes.NewReader(data)})
	}
	if err != nil {
		return nil, beep.Format{}, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return streamer, bf, format, nil
}

// readAll reads at most limit bytes from r.
func readAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("audio payload exceeds %d bytes", limit)
	}
	return data, nil
}
