package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestChannelSelection_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		sel     ChannelSelection
		want    []int
		wantErr bool
	}{
		{
			name: "range with blacklist",
			sel: ChannelSelection{
				Range:     &ChannelRange{Start: 1, End: 10},
				Blacklist: []int{4},
			},
			want: []int{1, 2, 3, 5, 6, 7, 8, 9},
		},
		{
			name: "range is end exclusive",
			sel:  ChannelSelection{Range: &ChannelRange{Start: 3, End: 6}},
			want: []int{3, 4, 5},
		},
		{
			name: "explicit list sorted and deduplicated",
			sel:  ChannelSelection{List: []int{7, 2, 7, 5, 2}},
			want: []int{2, 5, 7},
		},
		{
			name: "blacklist applies after list",
			sel:  ChannelSelection{List: []int{1, 2, 3}, Blacklist: []int{2, 99}},
			want: []int{1, 3},
		},
		{
			name: "range and list are mutually exclusive",
			sel: ChannelSelection{
				Range: &ChannelRange{Start: 1, End: 4},
				List:  []int{1},
			},
			wantErr: true,
		},
		{
			name:    "empty selection",
			sel:     ChannelSelection{},
			wantErr: true,
		},
		{
			name:    "inverted range",
			sel:     ChannelSelection{Range: &ChannelRange{Start: 5, End: 5}},
			wantErr: true,
		},
		{
			name:    "blacklist empties the selection",
			sel:     ChannelSelection{List: []int{1, 2}, Blacklist: []int{1, 2}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sel.Resolve()
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Fatalf("err = %v, want ErrConfiguration", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("resolve = %v, want %v", got, tt.want)
			}
		})
	}
}
