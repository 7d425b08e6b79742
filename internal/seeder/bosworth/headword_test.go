package bosworth

import (
	"errors"
	"testing"
)

func TestExtractHeadwords(t *testing.T) {
	exc := emptyExceptions(t)

	tests := []struct {
		name  string
		entry string
		want  []string
	}{
		{
			name:  "single headword with trailing comma",
			entry: "<B>word,</B> the definition",
			want:  []string{"word"},
		},
		{
			name:  "comma separated variants",
			entry: "<B>hwael, hwael-fisc</B> a whale",
			want:  []string{"hwael", "hwael-fisc"},
		},
		{
			name:  "lowercased and unaccented",
			entry: "<B>Á-cweðan</B> to say",
			want:  []string{"a-cweðan"},
		},
		{
			name:  "shared prefix fragment dropped",
			entry: "<B>foo-, bar-baz</B> text",
			want:  []string{"bar-baz"},
		},
		{
			name:  "shared suffix fragment dropped",
			entry: "<B>foo-bar, -baz</B> text",
			want:  []string{"foo-bar"},
		},
		{
			name:  "leading hyphen kept when it is the only survivor",
			entry: "<B>foo-, -bar</B> text",
			want:  []string{"-bar"},
		},
		{
			name:  "trailing hyphen kept on the last item",
			entry: "<B>full-word, stub-</B> text",
			want:  []string{"full-word", "stub-"},
		},
		{
			name:  "trailing roman numeral reference stripped",
			entry: "<B>ge-reafian; i</B> to plunder",
			want:  []string{"ge-reafian"},
		},
		{
			name:  "trailing digit reference stripped",
			entry: "<B>sum 2</B> a homograph",
			want:  []string{"sum"},
		},
		{
			name:  "trailing letter reference stripped",
			entry: "<B>wer; α</B> a man",
			want:  []string{"wer"},
		},
		{
			name:  "repeated references stripped",
			entry: "<B>sellan; ii 2</B> to give",
			want:  []string{"sellan"},
		},
		{
			name:  "empty variant after stripping is dropped",
			entry: "<B>drifan, ; i</B> to drive",
			want:  []string{"drifan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractHeadwords(tt.entry, exc)
			if err != nil {
				t.Fatalf("ExtractHeadwords: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("headword %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractHeadwordsDeterministic(t *testing.T) {
	exc := emptyExceptions(t)
	entry := "<B>hwael, hwael-fisc; ii</B> a whale"

	first, err := ExtractHeadwords(entry, exc)
	if err != nil {
		t.Fatalf("ExtractHeadwords: %v", err)
	}
	for run := 0; run < 3; run++ {
		got, err := ExtractHeadwords(entry, exc)
		if err != nil {
			t.Fatalf("ExtractHeadwords run %d: %v", run, err)
		}
		if len(got) != len(first) {
			t.Fatalf("run %d: got %q, want %q", run, got, first)
		}
		for i := range got {
			if got[i] != first[i] {
				t.Errorf("run %d: headword %d = %q, want %q", run, i, got[i], first[i])
			}
		}
	}
}

func TestExtractHeadwordsOverride(t *testing.T) {
	exc, err := LoadExceptions("")
	if err != nil {
		t.Fatalf("LoadExceptions: %v", err)
	}

	tests := []struct {
		name  string
		entry string
		want  string
	}{
		{
			name:  "override ignores subsequent text",
			entry: "<B>a;</B> anything at all can follow here",
			want:  "a",
		},
		{
			name:  "override for letter introduction",
			entry: "<B>B</B> THE sound of b is produced by no other text matters",
			want:  "b",
		},
		{
			name:  "override with markup in prefix",
			entry: "<B>Ii,</B> Hii, <I>Iona</I> the island",
			want:  "hii",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractHeadwords(tt.entry, exc)
			if err != nil {
				t.Fatalf("ExtractHeadwords: %v", err)
			}
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("got %q, want [%q]", got, tt.want)
			}
		})
	}
}

func TestExtractHeadwordsErrors(t *testing.T) {
	exc := emptyExceptions(t)

	tests := []struct {
		name  string
		entry string
	}{
		{"no leading bolded span", "plain text with no markup"},
		{"bold not at start", "intro <B>word</B> text"},
		{"all variants strip to nothing", "<B>; i</B> text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractHeadwords(tt.entry, exc)
			var hwErr *HeadwordError
			if !errors.As(err, &hwErr) {
				t.Fatalf("got err = %v, want *HeadwordError", err)
			}
		})
	}
}

func TestStripTrailingPartRefs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ge-reafian i", "ge-reafian"},
		{"word 2", "word"},
		{"sum iv", "sum"},
		{"wer α", "wer"},
		{"sellan ii 2", "sellan"},
		{"plain", "plain"},
		{"  padded  ", "padded"},
		{"i", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripTrailingPartRefs(tt.in); got != tt.want {
			t.Errorf("stripTrailingPartRefs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
