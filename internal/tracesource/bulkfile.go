package tracesource

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"osbp-detect/internal/domain"
)

// Bulk file layout, all little-endian:
//
//	magic    [8]byte "OSBPBULK"
//	version  uint32
//	channels uint32
//
// followed by one block per channel:
//
//	channel_id   int32
//	sample_rate  float64
//	digitisation float64
//	adc_range    float64
//	offset       float64
//	sample_count uint64
//	samples      int16 x sample_count (raw ADC counts)
const (
	bulkMagic   = "OSBPBULK"
	bulkVersion = 1
)

type channelEntry struct {
	offset      int64 // file offset of the first sample
	sampleCount uint64
	sampleRate  float64
	cal         domain.Calibration
}

// Compile-time check.
var _ Source = (*BulkFile)(nil)

// BulkFile reads calibrated traces out of a bulk acquisition file.
// The channel index is built once at open; sample data is read on demand.
type BulkFile struct {
	f     *os.File
	index map[int]channelEntry
}

// OpenBulkFile opens path and indexes its channel blocks.
func OpenBulkFile(path string) (*BulkFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bulk file: %w", err)
	}

	bf := &BulkFile{f: f, index: make(map[int]channelEntry)}
	if err := bf.buildIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return bf, nil
}

func (b *BulkFile) buildIndex() error {
	var magic [8]byte
	if _, err := io.ReadFull(b.f, magic[:]); err != nil {
		return fmt.Errorf("%w: short header", ErrCorruptFile)
	}
	if string(magic[:]) != bulkMagic {
		return fmt.Errorf("%w: bad magic %q", ErrCorruptFile, magic[:])
	}

	var version, channels uint32
	if err := binary.Read(b.f, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: short header", ErrCorruptFile)
	}
	if version != bulkVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorruptFile, version)
	}
	if err := binary.Read(b.f, binary.LittleEndian, &channels); err != nil {
		return fmt.Errorf("%w: short header", ErrCorruptFile)
	}

	pos := int64(16) // magic + version + channels
	for i := uint32(0); i < channels; i++ {
		var hdr struct {
			ChannelID    int32
			SampleRate   float64
			Digitisation float64
			ADCRange     float64
			Offset       float64
			SampleCount  uint64
		}
		if err := binary.Read(b.f, binary.LittleEndian, &hdr); err != nil {
			return fmt.Errorf("%w: short channel header at block %d", ErrCorruptFile, i)
		}
		pos += 4 + 8*5

		id := int(hdr.ChannelID)
		if _, dup := b.index[id]; dup {
			return fmt.Errorf("%w: duplicate channel %d", ErrCorruptFile, id)
		}
		b.index[id] = channelEntry{
			offset:      pos,
			sampleCount: hdr.SampleCount,
			sampleRate:  hdr.SampleRate,
			cal: domain.Calibration{
				Digitisation: hdr.Digitisation,
				Range:        hdr.ADCRange,
				Offset:       hdr.Offset,
			},
		}

		skip := int64(hdr.SampleCount) * 2
		next, err := b.f.Seek(skip, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("%w: truncated samples for channel %d", ErrCorruptFile, id)
		}
		pos = next
	}

	// A trailing partial block means the count in the header lied.
	end, err := b.f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek bulk file: %w", err)
	}
	if end < pos {
		return fmt.Errorf("%w: file shorter than channel index", ErrCorruptFile)
	}
	return nil
}

// GetTrace reads and calibrates the samples for one channel.
func (b *BulkFile) GetTrace(_ context.Context, channelID int) (*domain.Trace, error) {
	entry, ok := b.index[channelID]
	if !ok {
		return nil, ErrChannelNotFound
	}

	raw := make([]int16, entry.sampleCount)
	sec := io.NewSectionReader(b.f, entry.offset, int64(entry.sampleCount)*2)
	if err := binary.Read(sec, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("read samples for channel %d: %w", channelID, err)
	}

	samples := make([]float64, len(raw))
	for i, v := range raw {
		samples[i] = entry.cal.ToPicoamps(float64(v))
	}
	return &domain.Trace{
		ChannelID:  channelID,
		SampleRate: entry.sampleRate,
		Samples:    samples,
	}, nil
}

// Channels lists the indexed channel ids, ascending.
func (b *BulkFile) Channels(_ context.Context) ([]int, error) {
	ids := make([]int, 0, len(b.index))
	for id := range b.index {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Close closes the underlying file.
func (b *BulkFile) Close() error { return b.f.Close() }

// BulkWriter writes a bulk acquisition file block by block. Tests use it
// to build fixture files.
type BulkWriter struct {
	w        io.WriteSeeker
	channels uint32
}

// NewBulkWriter writes the file header and returns a writer positioned at
// the first channel block. The channel count is patched in by Finish.
func NewBulkWriter(w io.WriteSeeker) (*BulkWriter, error) {
	if _, err := w.Write([]byte(bulkMagic)); err != nil {
		return nil, fmt.Errorf("write magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(bulkVersion)); err != nil {
		return nil, fmt.Errorf("write version: %w", err)
	}
	// Placeholder channel count.
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return nil, fmt.Errorf("write channel count: %w", err)
	}
	return &BulkWriter{w: w}, nil
}

// WriteChannel appends one channel block of raw ADC counts.
func (bw *BulkWriter) WriteChannel(channelID int, sampleRate float64, cal domain.Calibration, raw []int16) error {
	hdr := struct {
		ChannelID    int32
		SampleRate   float64
		Digitisation float64
		ADCRange     float64
		Offset       float64
		SampleCount  uint64
	}{
		ChannelID:    int32(channelID),
		SampleRate:   sampleRate,
		Digitisation: cal.Digitisation,
		ADCRange:     cal.Range,
		Offset:       cal.Offset,
		SampleCount:  uint64(len(raw)),
	}
	if err := binary.Write(bw.w, binary.LittleEndian, hdr); err != nil {
		return fmt.Errorf("write channel header: %w", err)
	}
	if err := binary.Write(bw.w, binary.LittleEndian, raw); err != nil {
		return fmt.Errorf("write samples: %w", err)
	}
	bw.channels++
	return nil
}

// Finish patches the channel count into the header.
func (bw *BulkWriter) Finish() error {
	if _, err := bw.w.Seek(12, io.SeekStart); err != nil {
		return fmt.Errorf("seek header: %w", err)
	}
	if err := binary.Write(bw.w, binary.LittleEndian, bw.channels); err != nil {
		return fmt.Errorf("patch channel count: %w", err)
	}
	_, err := bw.w.Seek(0, io.SeekEnd)
	return err
}
