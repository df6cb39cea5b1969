package vdom

import "testing"

func TestLongestIncreasing(t *testing.T) {
	tests := []struct {
		name string
		seq  []int
		want int // length of the marked run
	}{
		{"empty", nil, 0},
		{"sorted", []int{0, 1, 2, 3}, 4},
		{"reversed", []int{3, 2, 1, 0}, 1},
		{"rotate right", []int{2, 0, 1}, 2},
		{"new nodes skipped", []int{-1, 0, -1, 1}, 2},
		{"all new", []int{-1, -1}, 0},
		{"mixed", []int{4, 1, 5, 2, 3, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := longestIncreasing(tt.seq)
			if len(in) != len(tt.seq) {
				t.Fatalf("len = %d, want %d", len(in), len(tt.seq))
			}
			n, last := 0, -1
			for i, ok := range in {
				if !ok {
					continue
				}
				if tt.seq[i] < 0 {
					t.Errorf("position %d with value %d marked", i, tt.seq[i])
				}
				if tt.seq[i] <= last {
					t.Errorf("marked run not increasing at %d", i)
				}
				last = tt.seq[i]
				n++
			}
			if n != tt.want {
				t.Errorf("run length = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestLongestIncreasingRotateRight(t *testing.T) {
	// [A,B,C] -> [C,A,B]: A and B stay, C moves.
	in := longestIncreasing([]int{2, 0, 1})
	want := []bool{false, true, true}
	for i := range want {
		if in[i] != want[i] {
			t.Fatalf("longestIncreasing = %v, want %v", in, want)
		}
	}
}
