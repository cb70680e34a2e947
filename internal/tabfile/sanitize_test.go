package tabfile

import (
	"bytes"
	"io"
	"io/fs"
	"testing"
	"testing/iotest"
)

func TestBOMReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "stream with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("id,name")...),
			want:  "id,name",
		},
		{
			name:  "stream without BOM",
			input: []byte("id,name"),
			want:  "id,name",
		},
		{
			name:  "empty stream",
			input: []byte{},
			want:  "",
		},
		{
			name:  "only a BOM",
			input: []byte{0xEF, 0xBB, 0xBF},
			want:  "",
		},
		{
			name:  "partial BOM is data",
			input: []byte{0xEF, 0xBB, 'a', 'b'},
			want:  string([]byte{0xEF, 0xBB, 'a', 'b'}),
		},
		{
			name:  "shorter than a BOM",
			input: []byte{'h', 'i'},
			want:  "hi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(&bomReader{src: bytes.NewReader(tt.input)})
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUTF8Reader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "plain ASCII",
			input: []byte("id,name"),
			want:  "id,name",
		},
		{
			name:  "valid multibyte",
			input: []byte("Müller,Søren"),
			want:  "Müller,Søren",
		},
		{
			name:  "invalid byte replaced",
			input: []byte{'h', 'e', 0x80, 'l', 'o'},
			want:  "he?lo",
		},
		{
			name:  "latin1 byte in a word",
			input: []byte{'M', 0xFC, 'l', 'l', 'e', 'r'},
			want:  "M?ller",
		},
		{
			name:  "empty input",
			input: []byte{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := io.ReadAll(&utf8Reader{src: bytes.NewReader(tt.input)})
			if err != nil {
				t.Fatalf("ReadAll: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUTF8ReaderSplitSequence(t *testing.T) {
	// OneByteReader forces every multi-byte character to straddle a read
	// boundary; the sanitizer must hold the partial sequence rather than
	// replace it.
	src := iotest.OneByteReader(bytes.NewReader([]byte("Müller")))

	got, err := io.ReadAll(&utf8Reader{src: src})
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "Müller" {
		t.Errorf("got %q, want %q", got, "Müller")
	}
}

func TestSanitizedReaderComposed(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte{'h', 'e', 0x80, 'l', 'o'}...)

	got, err := io.ReadAll(newSanitizedReader(bytes.NewReader(input)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "he?lo" {
		t.Errorf("got %q, want %q", got, "he?lo")
	}
}

func TestSanitizedReaderPropagatesError(t *testing.T) {
	wantErr := fs.ErrPermission

	_, err := io.ReadAll(newSanitizedReader(iotest.ErrReader(wantErr)))
	if err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
