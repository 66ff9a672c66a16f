package analyze

import "testing"

func TestParseDivideLine(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		done  bool
		move  string
		count int64
	}{
		{"e2e4: 600", true, false, "e2e4", 600},
		{"a7a8q: 12", true, false, "a7a8q", 12},
		{"h2h4: 1", true, false, "h2h4", 1},
		{"Nodes searched: 8902", true, true, "", 8902},
		{"info string loaded", false, false, "", 0},
		{"Stockfish 16 by the Stockfish developers", false, false, "", 0},
		{"e2e4 600", false, false, "", 0},
		{"i2i4: 600", false, false, "", 0},
		{"e2e4k: 600", false, false, "", 0},
		{"", false, false, "", 0},
	}

	for _, tc := range tests {
		r := &Report{Moves: make(map[string]int64)}
		done, ok := r.ParseDivideLine(tc.line)
		if ok != tc.ok {
			t.Errorf("ParseDivideLine(%q): ok=%v, want %v", tc.line, ok, tc.ok)
			continue
		}
		if done != tc.done {
			t.Errorf("ParseDivideLine(%q): done=%v, want %v", tc.line, done, tc.done)
		}
		if tc.move != "" {
			if got := r.Moves[tc.move]; got != tc.count {
				t.Errorf("ParseDivideLine(%q): count=%d, want %d", tc.line, got, tc.count)
			}
		}
		if tc.done && r.Nodes != tc.count {
			t.Errorf("ParseDivideLine(%q): total=%d, want %d", tc.line, r.Nodes, tc.count)
		}
	}
}

func TestParseDivideSession(t *testing.T) {
	lines := []string{
		"Stockfish 16 by the Stockfish developers (see AUTHORS file)",
		"a2a3: 380",
		"b1c3: 440",
		"e2e4: 600",
		"Nodes searched: 1420",
	}

	r := &Report{Moves: make(map[string]int64)}
	finished := false
	for _, line := range lines {
		if done, _ := r.ParseDivideLine(line); done {
			finished = true
			break
		}
	}

	if !finished {
		t.Fatalf("session never reached the total line")
	}
	if len(r.Moves) != 3 {
		t.Errorf("parsed %d moves, want 3", len(r.Moves))
	}
	if r.Nodes != 1420 {
		t.Errorf("total = %d, want 1420", r.Nodes)
	}
	if r.Moves["b1c3"] != 440 {
		t.Errorf("b1c3 = %d, want 440", r.Moves["b1c3"])
	}
}
