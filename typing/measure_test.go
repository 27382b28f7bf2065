package typing

import (
	"testing"
	"time"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		typed    string
		elapsed  time.Duration
		wantAcc  float64
		wantWPM  float64
		wantErrs int
	}{
		{
			name:    "perfect run",
			target:  "hello world",
			typed:   "hello world",
			elapsed: time.Minute,
			wantAcc: 100, wantWPM: 11.0 / 5, wantErrs: 0,
		},
		{
			name:    "one wrong character",
			target:  "hello",
			typed:   "hallo",
			elapsed: time.Minute,
			wantAcc: 80, wantWPM: 4.0 / 5, wantErrs: 1,
		},
		{
			name:    "short input counts missing tail as errors",
			target:  "abcdefghij",
			typed:   "abcde",
			elapsed: time.Minute,
			wantAcc: 50, wantWPM: 1, wantErrs: 5,
		},
		{
			name:    "overflow beyond target is pure error",
			target:  "abc",
			typed:   "abcxx",
			elapsed: time.Minute,
			wantAcc: 100, wantWPM: 3.0 / 5, wantErrs: 2,
		},
		{
			name:    "dropped character misaligns the rest",
			target:  "abcdef",
			typed:   "acdef",
			elapsed: time.Minute,
			wantAcc: 100.0 / 6, wantWPM: 1.0 / 5, wantErrs: 5,
		},
		{
			name:    "empty input",
			target:  "abc",
			typed:   "",
			elapsed: time.Minute,
			wantAcc: 0, wantWPM: 0, wantErrs: 3,
		},
		{
			name:    "empty target",
			target:  "",
			typed:   "",
			elapsed: time.Minute,
			wantAcc: 0, wantWPM: 0, wantErrs: 0,
		},
		{
			name:    "zero elapsed yields zero wpm",
			target:  "abc",
			typed:   "abc",
			elapsed: 0,
			wantAcc: 100, wantWPM: 0, wantErrs: 0,
		},
		{
			name:    "half minute doubles wpm",
			target:  "hello world, typed clean",
			typed:   "hello world, typed clean",
			elapsed: 30 * time.Second,
			wantAcc: 100, wantWPM: 24.0 / 5 * 2, wantErrs: 0,
		},
		{
			name:    "multibyte runes compare by position",
			target:  "héllo",
			typed:   "héllo",
			elapsed: time.Minute,
			wantAcc: 100, wantWPM: 1, wantErrs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Measure(tt.target, tt.typed, tt.elapsed)
			if !approx(got.Accuracy, tt.wantAcc) {
				t.Errorf("accuracy = %.3f, want %.3f", got.Accuracy, tt.wantAcc)
			}
			if !approx(got.WPM, tt.wantWPM) {
				t.Errorf("wpm = %.3f, want %.3f", got.WPM, tt.wantWPM)
			}
			if got.Errors != tt.wantErrs {
				t.Errorf("errors = %d, want %d", got.Errors, tt.wantErrs)
			}
			if got.TimeMs != tt.elapsed.Milliseconds() {
				t.Errorf("time = %dms", got.TimeMs)
			}
		})
	}
}

func TestMeasureCharCounts(t *testing.T) {
	got := Measure("abcdef", "abcxef", time.Minute)
	if got.TotalChars != 6 || got.CorrectChars != 5 {
		t.Errorf("chars = %d/%d, want 5/6", got.CorrectChars, got.TotalChars)
	}
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
