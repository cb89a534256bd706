package models

import "testing"

func TestMeanRating(t *testing.T) {
	if got := MeanRating([]int{5, 3, 4}); got != 4.0 {
		t.Errorf("MeanRating([5,3,4]) = %v, want 4.0", got)
	}
	// After the rating-3 review is removed.
	if got := MeanRating([]int{5, 4}); got != 4.5 {
		t.Errorf("MeanRating([5,4]) = %v, want 4.5", got)
	}
	if got := MeanRating(nil); got != 0.0 {
		t.Errorf("MeanRating(nil) = %v, want 0.0", got)
	}
	if got := MeanRating([]int{2}); got != 2.0 {
		t.Errorf("MeanRating([2]) = %v, want 2.0", got)
	}
}
