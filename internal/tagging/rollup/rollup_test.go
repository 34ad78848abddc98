package rollup

import (
	"strings"
	"testing"
)

func TestDecodeAndLookup(t *testing.T) {
	table, err := decode(strings.NewReader(`[
		{"lat":"WE_THE_PEOPLE","category":"Identity","subcategory":"Collective","cluster":"Persona"},
		{"lat":"GREETING","category":"Interaction","subcategory":"Opening","cluster":"Engagement"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	entry, ok := table.Lookup("WE_THE_PEOPLE")
	if !ok || entry.Category != "Identity" {
		t.Fatalf("unexpected lookup result: %+v ok=%v", entry, ok)
	}
	if _, ok := table.Lookup("NOT_CATEGORISED"); ok {
		t.Fatal("expected no entry for an uncategorised LAT")
	}
}
