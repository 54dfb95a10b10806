package deck

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// summarize renders items in a compact form for comparison.
func summarize(items []Item) []string {
	var out []string
	for _, it := range items {
		switch {
		case it.Record != nil:
			r := it.Record
			out = append(out, fmt.Sprintf("%s %d-%d %q", r.Kind, r.StartLine(), r.EndLine(), r.Content))
		case it.Diagnostic != nil:
			out = append(out, fmt.Sprintf("%s %d", it.Diagnostic.Kind, it.Diagnostic.Line()))
		}
	}
	return out
}

func TestParseScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "ampersand and indentation",
			input: "1 0 2 &\n-5 6 \n     imp:n=1 \n",
			want:  []string{`Data 1-3 "1 0 2 -5 6 imp:n=1"`},
		},
		{
			name:  "comment then data",
			input: "c this is a comment\n1 0\n",
			want:  []string{`Comment 1-1 "c this is a comment"`, `Data 2-2 "1 0"`},
		},
		{
			name:  "blank line separates",
			input: "1 0\n\n2 0\n",
			want:  []string{`Data 1-1 "1 0"`, `Data 3-3 "2 0"`},
		},
		{
			name:  "indented first line",
			input: "     imp:n=1\n",
			want:  []string{"DanglingContinuation 1", `Data 1-1 "imp:n=1"`},
		},
		{
			name:  "five spaces fold",
			input: "1 0\n     2 0\n",
			want:  []string{`Data 1-2 "1 0 2 0"`},
		},
		{
			name:  "four spaces do not fold",
			input: "1 0\n    2 0\n",
			want:  []string{`Data 1-1 "1 0"`, `Data 2-2 "2 0"`},
		},
		{
			name:  "blank line closes ampersand record",
			input: "1 0 &\n\n     2\n",
			want:  []string{`Data 1-1 "1 0"`, "DanglingContinuation 3", `Data 3-3 "2"`},
		},
		{
			name:  "indented comment does not merge",
			input: "1 0\n     c comment\n     2\n",
			want: []string{
				`Data 1-1 "1 0"`,
				`Comment 2-2 "     c comment"`,
				"DanglingContinuation 3",
				`Data 3-3 "2"`,
			},
		},
		{
			name:  "comment between records",
			input: "1 0 -1\nc middle\n2 0 1\n",
			want:  []string{`Data 1-1 "1 0 -1"`, `Comment 2-2 "c middle"`, `Data 3-3 "2 0 1"`},
		},
		{
			name:  "trailing space after ampersand",
			input: "1 0 & \n2 0\n",
			want:  []string{"TrailingAmpersand 1", `Data 1-1 "1 0 &"`, `Data 2-2 "2 0"`},
		},
		{
			name:  "lone ampersand line",
			input: "1 0 &\n&\n2\n",
			want:  []string{`Data 1-3 "1 0 2"`},
		},
		{
			name:  "no trailing newline",
			input: "1 0\n     imp:n=1",
			want:  []string{`Data 1-2 "1 0 imp:n=1"`},
		},
		{
			name:  "malformed line is skipped",
			input: "1 0\n2 \xff\n3 0\n",
			want:  []string{"MalformedLine 2", `Data 1-1 "1 0"`, `Data 3-3 "3 0"`},
		},
		{
			name:  "continuation after malformed line",
			input: "1 0 &\n\xff &\n     2\n",
			want:  []string{"MalformedLine 2", `Data 1-3 "1 0 2"`},
		},
		{
			name:  "malformed line inside a card",
			input: "1 0 &\n2 \xff &\n     3\n",
			want:  []string{"MalformedLine 2", `Data 1-3 "1 0 3"`},
		},
		{
			name:  "indented line after malformed line",
			input: "1 0\n\xff\n     imp:n=1\n",
			want:  []string{"MalformedLine 2", `Data 1-3 "1 0 imp:n=1"`},
		},
		{
			name:  "malformed first line",
			input: "\xff\n     imp:n=1\n",
			want:  []string{"MalformedLine 1", "DanglingContinuation 2", `Data 2-2 "imp:n=1"`},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only blank lines",
			input: "\n\n   \n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse([]byte(tt.input))
			if diff := cmp.Diff(tt.want, summarize(res.Items)); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseContentHasNoMarkers(t *testing.T) {
	input := "10 0 -1 2 &\n     -3 &\n4\n     imp:n=1\n"
	res := Parse([]byte(input))
	if len(res.Records) != 1 {
		t.Fatalf("len(Records) = %d, want 1", len(res.Records))
	}
	content := res.Records[0].Content
	if strings.Contains(content, "&") {
		t.Errorf("Content = %q contains '&'", content)
	}
	if strings.Contains(content, "     ") {
		t.Errorf("Content = %q contains the indentation marker", content)
	}
	if content != "10 0 -1 2 -3 4 imp:n=1" {
		t.Errorf("Content = %q, want %q", content, "10 0 -1 2 -3 4 imp:n=1")
	}
}

var wellFormed = []string{
	"1 0 2 &\n-5 6 \n     imp:n=1 \n",
	"c cells\n1 1 -0.5 -1 &\n     imp:n=1\n2 0 1\n     imp:n=0\n\nc surfaces\n1 so 5.0\n\nmode n\nnps 1000 &\n\n",
	"1 0 -1 imp:n=1\nc a\nc b\n2 0 1 imp:n=0\n\n1 so 1\n",
	"   1 0 -1\n    2 0 1\n\n",
}

func TestParseCoversEveryDataLine(t *testing.T) {
	for i, input := range wellFormed {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			res := Parse([]byte(input))
			if len(res.Diagnostics) != 0 {
				t.Fatalf("Diagnostics = %v, want none", res.Diagnostics)
			}

			owner := map[int]int{}
			for _, r := range res.Records {
				if r.Kind != KindData {
					continue
				}
				for n := r.StartLine(); n <= r.EndLine(); n++ {
					owner[n]++
				}
			}

			for n, text := range strings.Split(strings.TrimSuffix(input, "\n"), "\n") {
				if isBlank(text) || IsComment(text) {
					if owner[n+1] != 0 {
						t.Errorf("line %d (%q) is inside a data record", n+1, text)
					}
					continue
				}
				if owner[n+1] != 1 {
					t.Errorf("line %d (%q) belongs to %d records, want 1", n+1, text, owner[n+1])
				}
			}
		})
	}
}

// Content of well-formed records reparses to itself. A line ending in '&'
// plus trailing spaces is the exception, see
// TestParseTrailingAmpersandContentRefolds.
func TestParseIsIdempotentOnContent(t *testing.T) {
	for i, input := range wellFormed {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			for _, r := range Parse([]byte(input)).Records {
				if r.Kind != KindData {
					continue
				}
				again := Parse([]byte(r.Content))
				if len(again.Records) != 1 {
					t.Fatalf("reparse of %q: %d records, want 1", r.Content, len(again.Records))
				}
				if again.Records[0].Content != r.Content {
					t.Errorf("reparse Content = %q, want %q", again.Records[0].Content, r.Content)
				}
			}
		})
	}
}

func TestParseTrailingAmpersandContentRefolds(t *testing.T) {
	first := Parse([]byte("1 0 & \n"))
	if len(first.Records) != 1 || first.Records[0].Content != "1 0 &" {
		t.Fatalf("Records = %v, want one record \"1 0 &\"", first.Records)
	}
	if len(first.Diagnostics) != 1 || first.Diagnostics[0].Kind != TrailingAmpersand {
		t.Fatalf("Diagnostics = %v, want one TrailingAmpersand", first.Diagnostics)
	}

	// The '&' now ends the content, so it is read as a continuation marker.
	again := Parse([]byte(first.Records[0].Content))
	if len(again.Records) != 1 || again.Records[0].Content != "1 0" {
		t.Errorf("reparse = %v, want one record \"1 0\"", again.Records)
	}
}

func TestParseBlocks(t *testing.T) {
	input := "1 0 -1\n\n1 so 5\n\nm1 1001.80c 1\n\nprint\n"
	res := Parse([]byte(input))

	var got []string
	for _, r := range res.Records {
		got = append(got, r.Block.String()+" "+r.Content)
	}
	want := []string{"cell 1 0 -1", "surface 1 so 5", "data m1 1001.80c 1", "data print"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "title only",
			input: "my problem  \n1 0 -1\n",
			want:  []string{`Title 1-1 "my problem"`, `Data 2-2 "1 0 -1"`},
		},
		{
			name:  "message and title",
			input: "message: a=b\n  c=d\n\ntitle\n1 0 -1\n",
			want:  []string{`Message 1-2 "a=b c=d"`, `Title 4-4 "title"`, `Data 5-5 "1 0 -1"`},
		},
		{
			name:  "indented title is not a continuation",
			input: "     title\n     1 0 -1\n",
			want:  []string{`Title 1-1 "     title"`, "DanglingContinuation 2", `Data 2-2 "1 0 -1"`},
		},
		{
			name:  "message without title",
			input: "MESSAGE: x\n",
			want:  []string{`Message 1-1 "x"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse([]byte(tt.input), WithFrontMatter())
			if diff := cmp.Diff(tt.want, summarize(res.Items)); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			for _, r := range res.Records {
				if (r.Kind == KindTitle || r.Kind == KindMessage) && r.Block != BlockHeader {
					t.Errorf("%s Block = %v, want %v", r.Kind, r.Block, BlockHeader)
				}
			}
		})
	}
}

func TestParseWithVersion(t *testing.T) {
	long := "1 0 " + strings.Repeat("-1 ", 40)
	res := Parse([]byte(long+"\n"), WithVersion(Version{6, 1, 0}))

	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != LineTooLong {
		t.Fatalf("Diagnostics = %v, want one LineTooLong", res.Diagnostics)
	}
	if got := len(res.Records[0].Lines[0].Text); got != 80 {
		t.Errorf("line length = %d, want 80", got)
	}
	if res.HasErrors() {
		t.Error("HasErrors() = true, want false for warnings only")
	}
}

func TestParseReplaceInvalid(t *testing.T) {
	res := Parse([]byte("1 0\n2 \xff0\n"), WithReplaceInvalid())
	want := []string{`Data 1-1 "1 0"`, "MalformedLine 2", `Data 2-2 "2  0"`}
	if diff := cmp.Diff(want, summarize(res.Items)); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if res.HasErrors() {
		t.Error("HasErrors() = true, want false")
	}
}

func TestParsePositions(t *testing.T) {
	input := "1 0 &\n  2\n\nc x\n"
	res := Parse([]byte(input), WithFile("inp"))

	r := res.Records[0]
	wantSpan := Span{
		Start: Position{File: "inp", Offset: 0, Line: 1, Column: 1},
		End:   Position{File: "inp", Offset: 9, Line: 2, Column: 4},
	}
	if diff := cmp.Diff(wantSpan, r.Span); diff != "" {
		t.Errorf("Span mismatch (-want +got):\n%s", diff)
	}

	c := res.Records[1]
	if c.Span.Start.Offset != 11 || c.Span.Start.Line != 4 {
		t.Errorf("comment Start = %+v, want offset 11 line 4", c.Span.Start)
	}
	if got := c.CommentText(); got != "x" {
		t.Errorf("CommentText() = %q, want %q", got, "x")
	}
}

func TestReaderStopsEarly(t *testing.T) {
	r := NewReader([]byte("1 0\n2 0 &\n3\n"))

	it, ok := r.Next()
	if !ok || it.Record == nil || it.Record.Content != "1 0" {
		t.Fatalf("first item = %v, want record %q", it, "1 0")
	}

	var seen []Item
	for it := range r.All() {
		seen = append(seen, it)
		break
	}
	if len(seen) != 1 || seen[0].Record.Content != "2 0 3" {
		t.Errorf("seen = %v, want record %q", seen, "2 0 3")
	}
	if _, ok := r.Next(); ok {
		t.Error("Next() after end = true, want false")
	}
}

func TestFoldDanglingContinuation(t *testing.T) {
	classes := []LineClass{
		{Kind: LineIndentedContinuation, Line: line(1, "     a"), Payload: "a"},
		{Kind: LineExplicitContinuation, Line: line(2, "b"), Payload: "b"},
		{Kind: LineTerminator, Line: line(3, "")},
		{Kind: LineExplicitContinuation, Line: line(4, "c"), Payload: "c"},
	}

	items := slices.Collect(Fold(slices.Values(classes)))
	want := []string{"DanglingContinuation 1", `Data 1-2 "a b"`, "DanglingContinuation 4", `Data 4-4 "c"`}
	if diff := cmp.Diff(want, summarize(items)); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(items[2].Diagnostic.Message, "blank line") {
		t.Errorf("Message = %q, want mention of the blank line", items[2].Diagnostic.Message)
	}
}

func TestClassifyAll(t *testing.T) {
	var got []LineKind
	for c := range ClassifyAll([]byte("c x\n1 0 &\n2\n     3\n\n")) {
		got = append(got, c.Kind)
	}
	want := []LineKind{LineComment, LineRecordStart, LineExplicitContinuation, LineIndentedContinuation, LineTerminator}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScanner(t *testing.T) {
	tests := []struct {
		input   string
		texts   []string
		offsets []int
	}{
		{"", nil, nil},
		{"a", []string{"a"}, []int{0}},
		{"a\n", []string{"a"}, []int{0}},
		{"a\nbc\n\nd", []string{"a", "bc", "", "d"}, []int{0, 2, 5, 6}},
		{"\n\n", []string{"", ""}, []int{0, 1}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			s := NewScanner([]byte(tt.input), "")
			var texts []string
			var offsets []int
			for {
				l, ok := s.Next()
				if !ok {
					break
				}
				if l.Number != len(texts)+1 {
					t.Errorf("Number = %d, want %d", l.Number, len(texts)+1)
				}
				texts = append(texts, l.Text)
				offsets = append(offsets, l.Offset)
			}
			if diff := cmp.Diff(tt.texts, texts); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.offsets, offsets); diff != "" {
				t.Errorf("offsets mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
