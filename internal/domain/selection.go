package domain

import (
	"fmt"
	"sort"
)

// ChannelRange is a half-open channel id range [Start, End).
type ChannelRange struct {
	Start int
	End   int
}

// ChannelSelection describes which channels a run processes.
// Exactly one of Range or List must be set; Blacklist is subtracted
// after either is resolved.
type ChannelSelection struct {
	Range     *ChannelRange
	List      []int
	Blacklist []int
}

// Resolve expands the selection into a sorted, de-duplicated channel list.
// Specifying both an explicit list and a range, neither, or a selection
// that the blacklist empties out is a configuration error.
func (s ChannelSelection) Resolve() ([]int, error) {
	if s.Range != nil && len(s.List) > 0 {
		return nil, fmt.Errorf("%w: channel range and explicit channel list are mutually exclusive", ErrConfiguration)
	}

	var channels []int
	switch {
	case s.Range != nil:
		if s.Range.Start >= s.Range.End {
			return nil, fmt.Errorf("%w: channel range start %d must be less than end %d",
				ErrConfiguration, s.Range.Start, s.Range.End)
		}
		for id := s.Range.Start; id < s.Range.End; id++ {
			channels = append(channels, id)
		}
	case len(s.List) > 0:
		seen := make(map[int]struct{}, len(s.List))
		for _, id := range s.List {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			channels = append(channels, id)
		}
		sort.Ints(channels)
	default:
		return nil, fmt.Errorf("%w: no channels selected: provide a range or an explicit list", ErrConfiguration)
	}

	if len(s.Blacklist) > 0 {
		blocked := make(map[int]struct{}, len(s.Blacklist))
		for _, id := range s.Blacklist {
			blocked[id] = struct{}{}
		}
		filtered := channels[:0]
		for _, id := range channels {
			if _, skip := blocked[id]; !skip {
				filtered = append(filtered, id)
			}
		}
		channels = filtered
	}

	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels remain after applying the blacklist", ErrConfiguration)
	}
	return channels, nil
}
