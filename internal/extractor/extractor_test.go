package extractor

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackchuka/sift/internal/model"
)

func TestUnique(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "html attribute",
			input:    `class="p-4 text-sm"`,
			expected: []string{"class", "p-4", "text-sm"},
		},
		{
			name:     "js string with variant",
			input:    `const x = "hidden md:flex"`,
			expected: []string{"const", "x", "hidden", "md:flex", "flex"},
		},
		{
			name:  "arbitrary values negatives and important",
			input: `<div class="hover:bg-[#0ea5e9] sm:w-1/2 -mt-4 !font-bold">`,
			expected: []string{
				"class", "hover:bg-[#0ea5e9]", "bg-[#0ea5e9]", "sm:w-1/2", "w-1/2", "-mt-4", "!font-bold",
			},
		},
		{
			name:     "arbitrary property and arbitrary variant",
			input:    `"[mask-type:luminance] [&>*]:p-2"`,
			expected: []string{"[mask-type:luminance]", "[&>*]:p-2", "p-2"},
		},
		{
			name:     "quoted arbitrary value with non-ascii",
			input:    `"content-['→']"`,
			expected: []string{"content-['→']"},
		},
		{
			name:     "nested parens in arbitrary value",
			input:    `'2xl:grid-cols-[repeat(auto-fill,minmax(120px,1fr))]'`,
			expected: []string{"2xl:grid-cols-[repeat(auto-fill,minmax(120px,1fr))]", "grid-cols-[repeat(auto-fill,minmax(120px,1fr))]"},
		},
		{
			name:     "css variable shorthand and modifiers",
			input:    "`bg-(--brand) text-red-500/[0.5] bg-black/50`",
			expected: []string{"bg-(--brand)", "text-red-500/[0.5]", "bg-black/50"},
		},
		{
			name:     "named variants with arbitrary and modifier",
			input:    `"data-[state=open]:flex group-hover/item:underline @md:grid *:p-1"`,
			expected: []string{"data-[state=open]:flex", "flex", "group-hover/item:underline", "underline", "@md:grid", "grid", "*:p-1", "p-1"},
		},
		{
			name:     "trailing important and decimals",
			input:    `"flex! px-2.5"`,
			expected: []string{"flex!", "px-2.5"},
		},
		{
			name:     "pug style class shorthand",
			input:    "div.flex.p-4",
			expected: []string{"flex", "p-4"},
		},
		{
			name:     "haml style chain after a non-boundary",
			input:    "%div.flex.p-4.grid",
			expected: []string{"flex", "p-4", "grid"},
		},
		{
			name:     "dotted chain keeps decimal values",
			input:    "span.px-2.5.md:flex",
			expected: []string{"px-2.5", "md:flex", "flex"},
		},
		{
			name:     "dotted chain with a bad tail",
			input:    "div.flex.p-4;",
			expected: []string{"flex"},
		},
		{
			name:     "js array literal",
			input:    `["flex","p-4"]`,
			expected: []string{"flex", "p-4"},
		},
		{
			name:     "vue class binding array",
			input:    `<div :class="['p-4', 'text-sm']">`,
			expected: []string{"p-4", "text-sm"},
		},
		{
			name:     "nested array literal",
			input:    `[["underline"], 'md:grid']`,
			expected: []string{"underline", "md:grid", "grid"},
		},
		{
			name:     "svelte-like text between tags",
			input:    "<span>underline</span>",
			expected: []string{"underline"},
		},
		{
			name:     "duplicates collapse in first-seen order",
			input:    `"flex p-4 flex md:p-4"`,
			expected: []string{"flex", "p-4", "md:p-4"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Unique([]byte(tt.input)))
		})
	}
}

func TestUnique_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"double important", `"!flex!"`},
		{"trailing colon", `"md:"`},
		{"leading colon", `":flex"`},
		{"numbers only", `"123 1.5"`},
		{"trailing dash", `"text-"`},
		{"double dash", `"text--sm"`},
		{"unbalanced bracket", `"w-[10px"`},
		{"empty arbitrary value", `"w-[]"`},
		{"whitespace inside brackets", `"w-[10 px]"`},
		{"paren without css variable", `"bg-(brand)"`},
		{"call expression", `foo(bar)`},
		{"negative arbitrary property", `"-[color:red]"`},
		{"arbitrary property without value", `"[color:]"`},
		{"not followed by a boundary", `flex;`},
		{"not preceded by a boundary", `$flex`},
		{"invalid utf8 in brackets", "\"content-['\xff']\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Unique([]byte(tt.input)))
		})
	}
}

func TestUnique_SkipsBinaryAndWhitespaceRuns(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 1024))
	buf.WriteString(strings.Repeat(" ", 37))
	buf.WriteString(`"flex"`)
	buf.Write([]byte{0xff, 0xfe, 0x00, 0x01})
	buf.WriteString(strings.Repeat("\n  ", 20))
	buf.WriteString("grid")

	assert.Equal(t, []string{"flex", "grid"}, Unique(buf.Bytes()))
}

func TestUnique_Deterministic(t *testing.T) {
	input := []byte(`<a class="p-4 md:flex hover:bg-[red] text-sm">x</a> const y = "grid gap-2"`)

	first := Unique(input)
	for range 10 {
		assert.Equal(t, first, Unique(input))
	}
}

func TestWithPositions(t *testing.T) {
	input := []byte(`<p class="md:flex flex">`)

	got := WithPositions(input)

	expected := []model.Position{
		{Candidate: "class", Offset: 3},
		{Candidate: "md:flex", Offset: 10},
		{Candidate: "flex", Offset: 13},
		{Candidate: "flex", Offset: 18},
	}
	require.Equal(t, expected, got)

	for _, p := range got {
		assert.Equal(t, p.Candidate, string(input[p.Offset:p.Offset+len(p.Candidate)]))
	}
}

func TestWithPositions_ByteOffsets(t *testing.T) {
	input := []byte(`"héllo" "flex"`)

	got := WithPositions(input)

	require.Len(t, got, 1)
	assert.Equal(t, "flex", got[0].Candidate)
	assert.Equal(t, 10, got[0].Offset)
}

func FuzzUnique(f *testing.F) {
	f.Add([]byte(`class="p-4 md:flex"`))
	f.Add([]byte("\"content-['\xe2\x86\x92']\""))
	f.Add([]byte("[&>*]:p-2 bg-(--x) w-[\xff]"))

	f.Fuzz(func(t *testing.T, input []byte) {
		for _, p := range WithPositions(input) {
			if !utf8.ValidString(p.Candidate) {
				t.Fatalf("invalid utf-8 candidate %q", p.Candidate)
			}
			if !bytes.Equal(input[p.Offset:p.Offset+len(p.Candidate)], []byte(p.Candidate)) {
				t.Fatalf("candidate %q not found at offset %d", p.Candidate, p.Offset)
			}
		}
	})
}

func BenchmarkUnique(b *testing.B) {
	input := bytes.Repeat([]byte(`<div class="flex items-center md:grid hover:bg-[#fff] px-2.5">text</div>`+"\n"), 2000)
	b.SetBytes(int64(len(input)))
	b.ResetTimer()
	for range b.N {
		Unique(input)
	}
}
