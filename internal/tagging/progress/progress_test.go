package progress

import "testing"

func TestFromCursor(t *testing.T) {
	cases := []struct {
		cursor, total, want int
	}{
		{0, 0, 100},
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{11, 10, 100},
	}
	for _, c := range cases {
		if got := FromCursor(c.cursor, c.total); got != c.want {
			t.Errorf("FromCursor(%d, %d) = %d, want %d", c.cursor, c.total, got, c.want)
		}
	}
}

func TestFuncSink(t *testing.T) {
	var got int
	sink := FuncSink(func(p int) { got = p })
	sink.Report(42)
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}
