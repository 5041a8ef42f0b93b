package domain

// Trace holds the picoamp current samples for a single channel.
// Immutable once produced by a trace source; the detection core only reads it.
type Trace struct {
	ChannelID  int       // 1-based instrument channel identifier
	SampleRate float64   // digitizer sampling rate in Hz
	Samples    []float64 // current samples in pA
}

// Len returns the number of samples in the trace.
func (t *Trace) Len() int {
	return len(t.Samples)
}

// Seconds converts a sample count into seconds using the trace sample rate.
func (t *Trace) Seconds(samples int) float64 {
	if t.SampleRate == 0 {
		return 0
	}
	return float64(samples) / t.SampleRate
}

// Calibration carries the instrument ADC metadata needed to convert raw
// digitizer units into picoamps.
type Calibration struct {
	Digitisation float64 // ADC quantisation levels
	Range        float64 // pA range covered by the ADC
	Offset       float64 // ADC offset in raw units
}

// ToPicoamps converts a raw ADC sample to picoamps:
// pA = (raw + offset) * (range / digitisation).
func (c Calibration) ToPicoamps(raw float64) float64 {
	if c.Digitisation == 0 {
		return 0
	}
	return (raw + c.Offset) * (c.Range / c.Digitisation)
}
