package savestate

import (
	"bytes"
	"testing"

	"github.com/kvance/nescore/pkg/neserr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sections := [][]byte{
		{1, 2, 3},
		{},
		{0xFF, 0xEE, 0xDD, 0xCC, 0xBB},
	}
	data := Encode(sections)

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != len(sections) {
		t.Fatalf("got %d sections, want %d", len(got), len(sections))
	}
	for i := range sections {
		if !bytes.Equal(got[i], sections[i]) {
			t.Errorf("section %d = %v, want %v", i, got[i], sections[i])
		}
	}
}

func TestDecodeRejectsWrongVersion(t *testing.T) {
	data := Encode(nil)
	data[0] = 0xFF // corrupt the version field
	_, err := Decode(data)
	if err != neserr.ErrSaveStateVersion {
		t.Fatalf("expected ErrSaveStateVersion, got %v", err)
	}
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	data := Encode([][]byte{{1, 2, 3, 4, 5}})
	_, err := Decode(data[:len(data)-2])
	if err != neserr.ErrSaveStateCorrupt {
		t.Fatalf("expected ErrSaveStateCorrupt, got %v", err)
	}
}

func TestDecodeRejectsShortHeader(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	if err != neserr.ErrSaveStateCorrupt {
		t.Fatalf("expected ErrSaveStateCorrupt, got %v", err)
	}
}
