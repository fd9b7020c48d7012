package main

import (
	"strings"
	"testing"
	"time"
)

func TestFrameStep(t *testing.T) {
	tests := []struct {
		seconds float32
		want    time.Duration
	}{
		{0, 0},
		{-1, 0},
		{0.5 / 60, time.Second / 120},
		{2, maxFrameStep},
	}
	for _, tt := range tests {
		got := frameStep(tt.seconds)
		diff := got - tt.want
		if diff < -time.Microsecond || diff > time.Microsecond {
			t.Errorf("frameStep(%v): expected %v, got %v", tt.seconds, tt.want, got)
		}
	}
}

func TestFitPlayfield(t *testing.T) {
	x, y, scale := fitPlayfield(960, 720, 40, 480, 640)

	// Height bound: (720 - 40 - 64) / 640
	wantScale := 616.0 / 640.0
	if scale != wantScale {
		t.Errorf("Expected scale %v, got %v", wantScale, scale)
	}
	if y != 40+margin {
		t.Errorf("Expected y %d, got %d", 40+margin, y)
	}
	if want := int32((960 - 480*wantScale) / 2); x != want {
		t.Errorf("Expected x %d, got %d", want, x)
	}
}

func TestWrapWords(t *testing.T) {
	measure := func(s string) int32 { return int32(len(s)) }

	tests := []struct {
		name  string
		text  string
		width int32
		want  []string
	}{
		{"empty", "", 10, []string{""}},
		{"fits", "short line", 20, []string{"short line"}},
		{"wraps", "the quick brown fox jumps", 10, []string{"the quick", "brown fox", "jumps"}},
		{"long word stays whole", "a enormously b", 5, []string{"a", "enormously", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapWords(tt.text, tt.width, measure)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDigitChoice(t *testing.T) {
	const keyOne = 49
	for key := int32(keyOne); key < keyOne+9; key++ {
		n, ok := digitChoice(key, keyOne)
		if !ok || n != int(key-keyOne)+1 {
			t.Errorf("key %d: expected choice %d, got %d (ok=%v)", key, key-keyOne+1, n, ok)
		}
	}
	for _, key := range []int32{keyOne - 1, keyOne + 9, 0} {
		if _, ok := digitChoice(key, keyOne); ok {
			t.Errorf("key %d: expected no choice", key)
		}
	}
}
