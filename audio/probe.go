// Package audio inspects local audio files for the values the chapter
// decoders need: the container extension and the total duration.
package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

type Info struct {
	Path string
	Ext  string
	// Duration is in seconds, 0 when it could not be measured.
	Duration float64
}

var fileTypeExts = map[tag.FileType]string{
	tag.MP3:  ".mp3",
	tag.M4A:  ".m4a",
	tag.M4B:  ".m4b",
	tag.M4P:  ".m4p",
	tag.ALAC: ".m4a",
	tag.FLAC: ".flac",
	tag.OGG:  ".ogg",
	tag.DSF:  ".dsf",
}

// Probe identifies the file's container from its content, falling back to
// the file name, and measures the duration of MP3 files.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	info := &Info{Path: path, Ext: strings.ToLower(filepath.Ext(path))}

	if _, fileType, err := tag.Identify(f); err == nil {
		if ext, ok := fileTypeExts[fileType]; ok {
			info.Ext = ext
		}
	} else {
		log.Printf("Could not identify %s, using extension %q: %v\n", path, info.Ext, err)
	}

	if info.Ext != ".mp3" {
		return info, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind audio file: %w", err)
	}
	duration, err := mp3Duration(f)
	if err != nil {
		return nil, fmt.Errorf("failed to measure %s: %w", path, err)
	}
	info.Duration = duration

	return info, nil
}

// mp3Duration sums the duration of every frame in r.
func mp3Duration(r io.Reader) (float64, error) {
	decoder := mp3.NewDecoder(r)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}
