package tracesource

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"osbp-detect/internal/domain"
)

func writeFixture(t *testing.T, build func(*BulkWriter)) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "acq.osbp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	bw, err := NewBulkWriter(f)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	build(bw)
	if err := bw.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	return path
}

func TestBulkFile_RoundTrip(t *testing.T) {
	cal := domain.Calibration{Digitisation: 8192, Range: 1419.39, Offset: 10}
	raw := []int16{100, 200, -50, 0, 32000}

	path := writeFixture(t, func(bw *BulkWriter) {
		if err := bw.WriteChannel(3, 3012, cal, raw); err != nil {
			t.Fatalf("write channel: %v", err)
		}
	})

	bf, err := OpenBulkFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer bf.Close()

	trace, err := bf.GetTrace(context.Background(), 3)
	if err != nil {
		t.Fatalf("get trace: %v", err)
	}
	if trace.ChannelID != 3 {
		t.Errorf("channel id = %d, want 3", trace.ChannelID)
	}
	if trace.SampleRate != 3012 {
		t.Errorf("sample rate = %v, want 3012", trace.SampleRate)
	}
	if len(trace.Samples) != len(raw) {
		t.Fatalf("sample count = %d, want %d", len(trace.Samples), len(raw))
	}
	for i, v := range raw {
		want := (float64(v) + cal.Offset) * (cal.Range / cal.Digitisation)
		if math.Abs(trace.Samples[i]-want) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, trace.Samples[i], want)
		}
	}
}

func TestBulkFile_ChannelListing(t *testing.T) {
	cal := domain.Calibration{Digitisation: 8192, Range: 1419.39, Offset: 0}

	path := writeFixture(t, func(bw *BulkWriter) {
		for _, id := range []int{9, 2, 5} {
			if err := bw.WriteChannel(id, 3012, cal, []int16{1, 2, 3}); err != nil {
				t.Fatalf("write channel %d: %v", id, err)
			}
		}
	})

	bf, err := OpenBulkFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer bf.Close()

	ids, err := bf.Channels(context.Background())
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	want := []int{2, 5, 9}
	if len(ids) != len(want) {
		t.Fatalf("channels = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("channels = %v, want %v", ids, want)
		}
	}
}

func TestBulkFile_MissingChannel(t *testing.T) {
	path := writeFixture(t, func(bw *BulkWriter) {
		cal := domain.Calibration{Digitisation: 8192, Range: 1419.39}
		if err := bw.WriteChannel(1, 3012, cal, []int16{1}); err != nil {
			t.Fatalf("write channel: %v", err)
		}
	})

	bf, err := OpenBulkFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer bf.Close()

	if _, err := bf.GetTrace(context.Background(), 42); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("err = %v, want ErrChannelNotFound", err)
	}
}

func TestOpenBulkFile_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.osbp")
	if err := os.WriteFile(path, []byte("NOTABULKFILE0000"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}

	if _, err := OpenBulkFile(path); !errors.Is(err, ErrCorruptFile) {
		t.Errorf("err = %v, want ErrCorruptFile", err)
	}
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource()
	src.Put(&domain.Trace{ChannelID: 4, SampleRate: 1000, Samples: []float64{1, 2}})
	src.FailChannel(7, errors.New("read failure"))

	trace, err := src.GetTrace(context.Background(), 4)
	if err != nil || trace.ChannelID != 4 {
		t.Fatalf("get trace = %v, %v", trace, err)
	}
	if _, err := src.GetTrace(context.Background(), 7); err == nil {
		t.Error("expected injected failure for channel 7")
	}
	if _, err := src.GetTrace(context.Background(), 99); !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("err = %v, want ErrChannelNotFound", err)
	}

	ids, err := src.Channels(context.Background())
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if len(ids) != 2 || ids[0] != 4 || ids[1] != 7 {
		t.Errorf("channels = %v, want [4 7]", ids)
	}
}
