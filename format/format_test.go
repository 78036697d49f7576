package format

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/microbrews/abs-chapters/model"
)

func sampleChapters() []model.Chapter {
	return []model.Chapter{
		{ID: 0, Start: 0, End: 65.25, Title: "Intro"},
		{ID: 1, Start: 65.25, End: 120, Title: "Chapter One"},
	}
}

func longChapters(n int, duration float64) []model.Chapter {
	chapters := make([]model.Chapter, n)
	step := duration / float64(n)
	for i := range chapters {
		// whole milliseconds so both encodings can represent them
		start := math.Round(float64(i)*step*100) / 100
		chapters[i] = model.Chapter{ID: i, Start: start, Title: fmt.Sprintf("Chapter %d: Part %d", i+1, i%3)}
		if i > 0 {
			chapters[i-1].End = start
		}
	}
	chapters[n-1].End = duration
	return chapters
}

func assertChapters(t *testing.T, got, want []model.Chapter, tolerance float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d chapters, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("chapter %d: expected id %d, got %d", i, want[i].ID, got[i].ID)
		}
		if got[i].Title != want[i].Title {
			t.Errorf("chapter %d: expected title %q, got %q", i, want[i].Title, got[i].Title)
		}
		if math.Abs(got[i].Start-want[i].Start) > tolerance {
			t.Errorf("chapter %d: expected start %v, got %v", i, want[i].Start, got[i].Start)
		}
		if math.Abs(got[i].End-want[i].End) > tolerance {
			t.Errorf("chapter %d: expected end %v, got %v", i, want[i].End, got[i].End)
		}
	}
}

func assertMonotonic(t *testing.T, chapters []model.Chapter) {
	t.Helper()
	for i := 0; i+1 < len(chapters); i++ {
		if chapters[i].Start >= chapters[i+1].Start {
			t.Errorf("chapter %d start %v not before chapter %d start %v", i, chapters[i].Start, i+1, chapters[i+1].Start)
		}
		if chapters[i].End != chapters[i+1].Start {
			t.Errorf("chapter %d end %v != chapter %d start %v", i, chapters[i].End, i+1, chapters[i+1].Start)
		}
	}
}

func TestToM4B(t *testing.T) {
	got := strings.Join(ToM4B(sampleChapters()), "\n")
	want := "00:00:00.000 Intro\n00:01:05.250 Chapter One"
	if got != want {
		t.Fatalf("unexpected m4b-tool text:\n%s\nwant:\n%s", got, want)
	}
}

func TestFromM4B(t *testing.T) {
	chapters, err := FromM4B("00:00:00.000 Intro\n00:01:05.250 Chapter One\n", 120)
	if err != nil {
		t.Fatalf("FromM4B: %v", err)
	}
	want := sampleChapters()
	if len(chapters) != len(want) {
		t.Fatalf("expected %d chapters, got %d", len(want), len(chapters))
	}
	for i := range want {
		if chapters[i] != want[i] {
			t.Errorf("chapter %d: expected %+v, got %+v", i, want[i], chapters[i])
		}
	}
}

func TestFromM4BTitleWhitespace(t *testing.T) {
	chapters, err := FromM4B("00:00:00.000\t  Part 1:  The  Start\r\n00:10:00.000 Two", 1200)
	if err != nil {
		t.Fatalf("FromM4B: %v", err)
	}
	if chapters[0].Title != "Part 1:  The  Start" {
		t.Errorf("unexpected title %q", chapters[0].Title)
	}
	if chapters[1].Title != "Two" {
		t.Errorf("unexpected title %q", chapters[1].Title)
	}
}

func TestFromM4BSkipsBlankLines(t *testing.T) {
	text := "\n\n00:00:00.000 Intro\n   \n\n00:01:05.250 Chapter One\n\n"
	chapters, err := FromM4B(text, 120)
	if err != nil {
		t.Fatalf("FromM4B: %v", err)
	}
	assertChapters(t, chapters, sampleChapters(), 0)
}

func TestFromM4BErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		duration float64
		line     int
		contains string
	}{
		{"missing title", "00:00:00.000 Intro\n00:01:00.000", 120, 2, "missing chapter title"},
		{"bad time", "0:00 Intro", 120, 1, "bad start time"},
		{"non numeric", "00:xx:00.000 Intro", 120, 1, "bad start time"},
		{"out of order", "00:01:00.000 B\n00:00:30.000 A", 120, 2, "not after the previous chapter"},
		{"duplicate start", "00:00:00.000 A\n00:00:00.000 B", 120, 2, "not after the previous chapter"},
		{"short duration", "00:00:00.000 A\n00:02:00.000 B", 120, 0, "does not exceed last chapter start"},
		{"empty", "\n \n", 120, 0, "no chapters found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapters, err := FromM4B(tt.text, tt.duration)
			if err == nil {
				t.Fatalf("expected error, got %+v", chapters)
			}
			if chapters != nil {
				t.Errorf("expected no partial result, got %+v", chapters)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if perr.Format != M4BTool {
				t.Errorf("expected format %s, got %s", M4BTool, perr.Format)
			}
			if perr.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, perr.Line)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestToCue(t *testing.T) {
	got := strings.Join(ToCue(sampleChapters(), ".mp3"), "\n")
	want := strings.Join([]string{
		`FILE "" MP3`,
		`TRACK 1 AUDIO`,
		`  TITLE "Intro"`,
		`  INDEX 01 0:00:00`,
		`TRACK 2 AUDIO`,
		`  TITLE "Chapter One"`,
		`  INDEX 01 1:05:25`,
	}, "\n")
	if got != want {
		t.Fatalf("unexpected cue text:\n%s\nwant:\n%s", got, want)
	}
}

func TestCueHeader(t *testing.T) {
	tests := []struct {
		ext      string
		expected string
	}{
		{".mp3", `FILE "" MP3`},
		{".MP3", `FILE "" MP3`},
		{"mp3", `FILE "" MP3`},
		{".m4b", `FILE "" MP4`},
		{".flac", `FILE "" MP4`},
		{"", `FILE "" MP4`},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			if got := ToCue(nil, tt.ext)[0]; got != tt.expected {
				t.Errorf("header for %q = %s; want %s", tt.ext, got, tt.expected)
			}
		})
	}
}

func TestFromCue(t *testing.T) {
	text := strings.Join(ToCue(sampleChapters(), ".m4b"), "\n")
	chapters, err := FromCue(text, 120)
	if err != nil {
		t.Fatalf("FromCue: %v", err)
	}
	assertChapters(t, chapters, sampleChapters(), 0.01)
	if chapters[1].End != 120 {
		t.Errorf("expected last end 120, got %v", chapters[1].End)
	}
}

func TestFromCueLenientInput(t *testing.T) {
	text := "REM GENRE Audiobook\r\n" +
		"file \"book.mp3\" MP3\r\n" +
		"\r\n" +
		"  track 01 AUDIO\r\n" +
		"    title \"Opening\"\r\n" +
		"    PERFORMER \"Someone\"\r\n" +
		"    index 01 0:00:00\r\n" +
		"\r\n" +
		"  TRACK 02 AUDIO\r\n" +
		"    TITLE Unquoted title\r\n" +
		"    INDEX 01 12:03:50\r\n"

	chapters, err := FromCue(text, 1000)
	if err != nil {
		t.Fatalf("FromCue: %v", err)
	}
	want := []model.Chapter{
		{ID: 0, Start: 0, End: 723.5, Title: "Opening"},
		{ID: 1, Start: 723.5, End: 1000, Title: "Unquoted title"},
	}
	assertChapters(t, chapters, want, 1e-9)
}

func TestFromCueDiscTitle(t *testing.T) {
	text := "TITLE \"The Shining\"\nPERFORMER \"Stephen King\"\nFILE \"book.m4b\" MP4\n" +
		"TRACK 1 AUDIO\n  TITLE \"Opening\"\n  INDEX 01 0:00:00\n" +
		"TRACK 2 AUDIO\n  TITLE \"Middle\"\n  INDEX 01 1:00:50\n"

	chapters, err := FromCue(text, 120)
	if err != nil {
		t.Fatalf("FromCue: %v", err)
	}
	want := []model.Chapter{
		{ID: 0, Start: 0, End: 60.5, Title: "Opening"},
		{ID: 1, Start: 60.5, End: 120, Title: "Middle"},
	}
	assertChapters(t, chapters, want, 1e-9)
}

func TestFromCueQuotedTitle(t *testing.T) {
	chapters := []model.Chapter{
		{ID: 0, Start: 0, End: 10, Title: `He said "hi"`},
	}
	parsed, err := FromCue(strings.Join(ToCue(chapters, ".mp3"), "\n"), 10)
	if err != nil {
		t.Fatalf("FromCue: %v", err)
	}
	if parsed[0].Title != `He said "hi"` {
		t.Errorf("unexpected title %q", parsed[0].Title)
	}
}

func TestFromCueErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		line     int
		contains string
	}{
		{"bad index", "TITLE \"A\"\nINDEX 01 1.05.25", 2, "bad index time"},
		{"index fields", "TITLE \"A\"\nINDEX 0:00:00", 2, "expected INDEX"},
		{"missing title", "TITLE\nINDEX 01 0:00:00", 1, "missing chapter title"},
		{"extra title", "TITLE \"A\"\nINDEX 01 0:00:00\nTITLE \"B\"", 0, "2 TITLE lines but 1 INDEX lines"},
		{"extra index", "TITLE \"A\"\nINDEX 01 0:00:00\nINDEX 01 0:10:00", 0, "1 TITLE lines but 2 INDEX lines"},
		{"out of order", "TITLE \"A\"\nINDEX 01 1:00:00\nTITLE \"B\"\nINDEX 01 0:30:00", 4, "not after the previous track"},
		{"empty", "FILE \"\" MP4\n", 0, "no chapters found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromCue(tt.text, 3600)
			if err == nil {
				t.Fatal("expected error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if perr.Line != tt.line {
				t.Errorf("expected line %d, got %d", tt.line, perr.Line)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q should contain %q", err.Error(), tt.contains)
			}
		})
	}
}

func TestRoundTripM4B(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			want := longChapters(n, 36123.45)
			text := strings.Join(ToM4B(want), "\n")
			got, err := FromM4B(text, 36123.45)
			if err != nil {
				t.Fatalf("FromM4B: %v", err)
			}
			assertChapters(t, got, want, 0.001)
			assertMonotonic(t, got)
			if got[len(got)-1].End != 36123.45 {
				t.Errorf("expected last end to equal duration, got %v", got[len(got)-1].End)
			}
		})
	}
}

func TestRoundTripCue(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			want := longChapters(n, 36123.45)
			text := strings.Join(ToCue(want, ".m4b"), "\n")
			got, err := FromCue(text, 36123.45)
			if err != nil {
				t.Fatalf("FromCue: %v", err)
			}
			assertChapters(t, got, want, 0.01)
			assertMonotonic(t, got)
			if got[len(got)-1].End != 36123.45 {
				t.Errorf("expected last end to equal duration, got %v", got[len(got)-1].End)
			}
		})
	}
}

func TestDurationClosesLastChapter(t *testing.T) {
	chapters := sampleChapters()
	for _, duration := range []float64{120, 120.001, 9999.5} {
		m4b, err := FromM4B(strings.Join(ToM4B(chapters), "\n"), duration)
		if err != nil {
			t.Fatalf("FromM4B: %v", err)
		}
		if end := m4b[len(m4b)-1].End; end != duration {
			t.Errorf("m4b-tool: expected last end %v, got %v", duration, end)
		}

		cue, err := FromCue(strings.Join(ToCue(chapters, ".mp3"), "\n"), duration)
		if err != nil {
			t.Fatalf("FromCue: %v", err)
		}
		if end := cue[len(cue)-1].End; end != duration {
			t.Errorf("cue: expected last end %v, got %v", duration, end)
		}
	}
}

func TestABSRoundTrip(t *testing.T) {
	data, err := ToABS(sampleChapters())
	if err != nil {
		t.Fatalf("ToABS: %v", err)
	}
	if !strings.HasPrefix(string(data), "[\n  {\n    \"id\": 0,\n    \"start\": 0,\n    \"end\": 65.25,\n    \"title\": \"Intro\"\n  },") {
		t.Errorf("unexpected JSON layout:\n%s", data)
	}

	chapters, err := FromABS(data)
	if err != nil {
		t.Fatalf("FromABS: %v", err)
	}
	assertChapters(t, chapters, sampleChapters(), 0)
}

func TestToABSKeepsSpecialCharacters(t *testing.T) {
	chapters := []model.Chapter{{ID: 0, Start: 0, End: 10, Title: "Rock & Roll <Live>"}}
	data, err := ToABS(chapters)
	if err != nil {
		t.Fatalf("ToABS: %v", err)
	}
	if !strings.Contains(string(data), `"title": "Rock & Roll <Live>"`) {
		t.Errorf("title should not be escaped:\n%s", data)
	}
	if strings.HasSuffix(string(data), "\n") {
		t.Errorf("unexpected trailing newline:\n%q", data)
	}

	comment, err := ToComment(chapters, ".mp3")
	if err != nil {
		t.Fatalf("ToComment: %v", err)
	}
	if strings.Contains(comment, `\u0026`) || !strings.Contains(comment, `"title": "Rock & Roll <Live>"`) {
		t.Errorf("comment should show the raw title:\n%s", comment)
	}
}

func TestFromABSErrors(t *testing.T) {
	for _, input := range []string{"", "{}", "[", "[]"} {
		_, err := FromABS([]byte(input))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("FromABS(%q): expected *ParseError, got %v", input, err)
		}
	}
}

func TestToComment(t *testing.T) {
	comment, err := ToComment(sampleChapters(), ".mp3")
	if err != nil {
		t.Fatalf("ToComment: %v", err)
	}

	if !strings.HasPrefix(comment, "Thank you!  Here are the chapters I found:[br][br]\n\nABS format:\n\n[hide][fw][[br]\n  {[br]\n") {
		t.Errorf("unexpected comment start:\n%s", comment)
	}
	m4b := "m4b-tool format:\n\n[hide][fw]00:00:00.000 Intro[br]\n00:01:05.250 Chapter One[/fw][/hide]"
	if !strings.Contains(comment, m4b) {
		t.Errorf("comment should contain m4b-tool block %q:\n%s", m4b, comment)
	}
	cue := "CUE format:\n\n[hide][fw]FILE \"\" MP3[br]\nTRACK 1 AUDIO[br]\n  TITLE \"Intro\"[br]\n  INDEX 01 0:00:00[br]\n"
	if !strings.Contains(comment, cue) {
		t.Errorf("comment should contain cue block %q:\n%s", cue, comment)
	}
	if !strings.HasSuffix(comment, "  INDEX 01 1:05:25[/fw][/hide]") {
		t.Errorf("unexpected comment end:\n%s", comment)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if got, err := ParseFormat(" CUE "); err != nil || got != Cue {
		t.Errorf("ParseFormat should normalise case, got %q, %v", got, err)
	}
	if _, err := ParseFormat("srt"); err == nil {
		t.Error("expected error for unknown format")
	}
	if Comment.Uploadable() {
		t.Error("comment should not be uploadable")
	}
}

func TestRenderParse(t *testing.T) {
	for _, f := range []Format{ABS, M4BTool, Cue} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Render(f, sampleChapters(), ".mp3")
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			chapters, err := Parse(f, data, 120)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			assertChapters(t, chapters, sampleChapters(), 0.01)
		})
	}

	if _, err := Parse(Comment, []byte("anything"), 120); err == nil {
		t.Error("expected error parsing comment format")
	}
}
