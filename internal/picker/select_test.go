package picker

import (
	"reflect"
	"testing"
	"time"

	"github.com/muurk/freightform/internal/position"
)

func countryOptions() []Option {
	return []Option{
		{Key: "AT", Label: "🇦🇹 Austria"},
		{Key: "BE", Label: "🇧🇪 Belgium"},
		{Key: "CA", Label: "🇨🇦 Canada"},
		{Key: "FR", Label: "🇫🇷 France"},
		{Key: "DE", Label: "🇩🇪 Germany"},
		{Key: "LU", Label: "🇱🇺 Luxembourg"},
		{Key: "MC", Label: "🇲🇨 Monaco"},
		{Key: "ES", Label: "🇪🇸 Spain"},
		{Key: "CH", Label: "🇨🇭 Switzerland"},
	}
}

func keys(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Key
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"Empty query returns all in source order", "", []string{"AT", "BE", "CA", "FR", "DE", "LU", "MC", "ES", "CH"}},
		{"Case-insensitive substring", "GER", []string{"DE"}},
		{"Matches in the middle of the label", "an", []string{"CA", "FR", "DE", "CH"}},
		{"Emoji prefix is not searchable", "🇫", nil},
		{"Whitespace-only query is empty", "   ", []string{"AT", "BE", "CA", "FR", "DE", "LU", "MC", "ES", "CH"}},
		{"No match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keys(Filter(countryOptions(), tt.query, nil))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestPrioritizeFrench(t *testing.T) {
	source := countryOptions()
	before := keys(source)

	got := Filter(source, "", PriorityFor("fr"))

	// FR BE CH CA LU MC first, then the rest in source order
	want := []string{"FR", "BE", "CH", "CA", "LU", "MC", "AT", "DE", "ES"}
	if !reflect.DeepEqual(keys(got), want) {
		t.Errorf("priority order = %v, want %v", keys(got), want)
	}
	if got[0].Group != GroupPopular || got[6].Group != GroupOther {
		t.Errorf("groups = %q/%q, want popular/other", got[0].Group, got[6].Group)
	}
	if !reflect.DeepEqual(keys(source), before) {
		t.Errorf("source list mutated: %v", keys(source))
	}
	if source[0].Group != "" {
		t.Errorf("source option group mutated: %q", source[0].Group)
	}
}

func TestPrioritizeSkipsMissingKeys(t *testing.T) {
	source := []Option{{Key: "DE", Label: "Germany"}, {Key: "CH", Label: "Switzerland"}}
	got := keys(Prioritize(source, []string{"FR", "CH", "CH"}))
	want := []string{"CH", "DE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Prioritize() = %v, want %v", got, want)
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"fr", "FR"},
		{"fr-CA", "FR"},
		{"de-AT", "DE"},
		{"en", "GB"},
		{"ja", ""},
		{"not a tag!", ""},
	}
	for _, tt := range tests {
		got := PriorityFor(tt.lang)
		first := ""
		if len(got) > 0 {
			first = got[0]
		}
		if first != tt.want {
			t.Errorf("PriorityFor(%q)[0] = %q, want %q", tt.lang, first, tt.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	got := Suggest(countryOptions(), "grmny", 3)
	if len(got) == 0 || got[0].Key != "DE" {
		t.Errorf("Suggest(grmny) = %v, want DE first", keys(got))
	}
	if Suggest(countryOptions(), "", 3) != nil {
		t.Error("Suggest with empty query should return nil")
	}
}

func TestSelectKeyboardNavigationClamps(t *testing.T) {
	s := New(Config{ID: "country", Kind: position.KindCountry, Options: countryOptions()})

	if s.Highlighted() != -1 {
		t.Fatalf("Highlighted() = %d before open, want -1", s.Highlighted())
	}

	s.Open()
	if s.Highlighted() != 0 {
		t.Fatalf("Highlighted() = %d after open, want 0", s.Highlighted())
	}

	s.HighlightPrevious()
	if s.Highlighted() != 0 {
		t.Errorf("HighlightPrevious at top = %d, want 0 (no wraparound)", s.Highlighted())
	}

	for i := 0; i < 20; i++ {
		s.HighlightNext()
	}
	if want := len(countryOptions()) - 1; s.Highlighted() != want {
		t.Errorf("HighlightNext past end = %d, want %d (no wraparound)", s.Highlighted(), want)
	}

	s.Close()
	if s.Highlighted() != -1 {
		t.Errorf("Highlighted() = %d after close, want -1", s.Highlighted())
	}
}

func TestSelectHighlightResetsWhenFilteredSizeChanges(t *testing.T) {
	s := New(Config{ID: "country", Options: countryOptions()})
	s.Open()
	s.HighlightNext()
	s.HighlightNext()

	s.SetQuery("an")
	if s.Highlighted() != 0 {
		t.Errorf("Highlighted() = %d after filter change, want 0", s.Highlighted())
	}

	s.SetQuery("zzz")
	if s.Highlighted() != -1 {
		t.Errorf("Highlighted() = %d with no results, want -1", s.Highlighted())
	}
}

func TestSelectHighlightedWritesValueAndCloses(t *testing.T) {
	var written string
	s := New(Config{
		ID:       "country",
		Options:  countryOptions(),
		OnSelect: func(o Option) { written = o.Key },
	})
	s.Open()
	s.SetQuery("swi")

	got, ok := s.SelectHighlighted()
	if !ok || got.Key != "CH" {
		t.Fatalf("SelectHighlighted() = %v, %v; want CH", got, ok)
	}
	if written != "CH" {
		t.Errorf("OnSelect wrote %q, want CH", written)
	}
	if s.IsOpen() {
		t.Error("picker still open after selection")
	}
	if s.Query() != "" || s.RawQuery() != "" {
		t.Errorf("query not cleared after selection: %q/%q", s.Query(), s.RawQuery())
	}
	if text := s.TriggerText("Select a country"); text != "🇨🇭 Switzerland" {
		t.Errorf("TriggerText() = %q", text)
	}
}

func TestSelectByKeyAndTriggerIcon(t *testing.T) {
	opts := []Option{{Key: "EUR", Label: "Euro", Icon: "€"}}
	s := New(Config{ID: "currency", Kind: position.KindCurrency, Options: opts})

	if text := s.TriggerText("Currency"); text != "Currency" {
		t.Errorf("TriggerText() before selection = %q, want placeholder", text)
	}
	if _, ok := s.SelectByKey("XXX"); ok {
		t.Error("SelectByKey(XXX) succeeded for an unknown key")
	}
	if _, ok := s.SelectByKey("EUR"); !ok {
		t.Fatal("SelectByKey(EUR) failed")
	}
	if text := s.TriggerText("Currency"); text != "€ Euro" {
		t.Errorf("TriggerText() = %q, want \"€ Euro\"", text)
	}
}

func TestSelectStatus(t *testing.T) {
	s := New(Config{ID: "country", Options: countryOptions()})
	if s.Status() != StatusClosed {
		t.Errorf("Status() = %v, want closed", s.Status())
	}
	s.Open()
	if s.Status() != StatusOpen {
		t.Errorf("Status() = %v, want open", s.Status())
	}
	s.SetQuery("qqqq")
	if s.Status() != StatusNoResults {
		t.Errorf("Status() = %v, want no-results", s.Status())
	}

	// An empty option list with no query is open, not no-results
	empty := New(Config{ID: "port"})
	empty.Open()
	if empty.Status() != StatusOpen {
		t.Errorf("empty picker Status() = %v, want open", empty.Status())
	}
}

func TestSelectDebouncedTyping(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start

	s := New(Config{ID: "country", Options: countryOptions(), SearchBox: true, Debounce: DefaultDebounce})
	s.Debouncer().Now = func() time.Time { return now }
	s.Open()
	passes := s.FilterPasses()

	first := s.Type("Germ")
	if s.RawQuery() != "Germ" || s.Query() != "" {
		t.Fatalf("raw/applied = %q/%q, want Germ/\"\"", s.RawQuery(), s.Query())
	}

	now = start.Add(100 * time.Millisecond)
	second := s.Type("Germany")
	if second.Due != now.Add(200*time.Millisecond) {
		t.Errorf("Due = %v, want 200ms after the last keystroke", second.Due)
	}

	now = start.Add(200 * time.Millisecond)
	if s.Flush(first.Token) {
		t.Error("Flush(first) applied a superseded keystroke")
	}
	now = start.Add(250 * time.Millisecond)
	if s.Flush(second.Token) {
		t.Error("Flush(second) applied before its due time")
	}
	now = start.Add(300 * time.Millisecond)
	if !s.Flush(second.Token) {
		t.Fatal("Flush(second) rejected the live keystroke")
	}

	if s.Query() != "Germany" {
		t.Errorf("Query() = %q, want Germany", s.Query())
	}
	if got := s.FilterPasses() - passes; got != 1 {
		t.Errorf("filter passes = %d, want exactly 1", got)
	}
	if s.Flush(second.Token) {
		t.Error("Flush fired twice for the same token")
	}
}

func TestSelectCloseCancelsPendingDebounce(t *testing.T) {
	now := time.Now()
	s := New(Config{ID: "country", Options: countryOptions(), Debounce: DefaultDebounce})
	s.Debouncer().Now = func() time.Time { return now }
	s.Open()

	p := s.Type("Fra")
	s.Close()
	now = now.Add(time.Second)

	if s.Flush(p.Token) {
		t.Error("Flush applied a keystroke cancelled by Close")
	}
}

func TestSelectListenersReleasedOnClose(t *testing.T) {
	l := NewListeners()
	s := New(Config{ID: "country", Options: countryOptions(), Listeners: l, TrackClicks: true})

	for i := 0; i < 50; i++ {
		s.Open()
		if !l.Registered("country") {
			t.Fatal("listeners not registered while open")
		}
		s.Close()
	}
	if l.Active() != 0 {
		t.Errorf("Active() = %d after repeated open/close, want 0", l.Active())
	}
}

func TestSelectOutsideClickClosesOnlyOthers(t *testing.T) {
	l := NewListeners()
	country := New(Config{ID: "country", Options: countryOptions(), Listeners: l})
	currency := New(Config{ID: "currency", Options: []Option{{Key: "EUR", Label: "Euro"}}, Listeners: l})

	country.Open()
	country.SetQuery("fr")
	currency.Open()

	// Pointer-down inside the currency panel
	l.Dispatch(Event{Kind: EventOutsideClick, Target: "currency"})

	if country.IsOpen() {
		t.Error("country picker still open after outside click")
	}
	if country.Query() != "" {
		t.Errorf("country query = %q after outside click, want cleared", country.Query())
	}
	if !currency.IsOpen() {
		t.Error("currency picker closed by a click inside itself")
	}
	if l.Registered("country") || !l.Registered("currency") {
		t.Error("listener registry out of sync with open pickers")
	}
}

type stubMeasurer struct {
	rect     position.Rect
	viewport position.Size
}

func (m *stubMeasurer) BoundingRect(string) (position.Rect, bool) { return m.rect, true }
func (m *stubMeasurer) Viewport() (position.Size, bool)           { return m.viewport, true }

func TestSelectPlacementFollowsResize(t *testing.T) {
	m := &stubMeasurer{
		rect:     position.Rect{Top: 200, Left: 50, Bottom: 240, Right: 400},
		viewport: position.Size{Width: 1280, Height: 800},
	}
	l := NewListeners()
	s := New(Config{ID: "country", Options: countryOptions(), SearchBox: true, Measurer: m, Listeners: l})

	s.Open()
	if s.Placement().ShowAbove {
		t.Fatal("ShowAbove with plenty of room below")
	}

	m.viewport = position.Size{Width: 1280, Height: 300}
	l.Dispatch(Event{Kind: EventResize})
	if !s.Placement().ShowAbove {
		t.Error("placement did not flip after the viewport shrank")
	}

	if !s.Measure(s.MeasureToken()) {
		t.Error("deferred measurement rejected while open")
	}
	tok := s.MeasureToken()
	s.Close()
	if s.Measure(tok) {
		t.Error("deferred measurement applied after close")
	}
}

func TestSelectSetOptionsDropsStaleSelection(t *testing.T) {
	s := New(Config{ID: "port", Options: []Option{{Key: "FRLEH", Label: "Le Havre"}}})
	s.SelectByKey("FRLEH")
	s.SetOptions([]Option{{Key: "DEHAM", Label: "Hamburg"}})
	if _, ok := s.Selected(); ok {
		t.Error("selection kept after its option disappeared")
	}
}
