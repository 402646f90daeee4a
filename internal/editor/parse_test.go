package editor

import (
	"errors"
	"testing"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "surrounding blocks", in: "<!--a-->text<!--b-->", want: "text"},
		{name: "plain", in: "plain", want: "plain"},
		{name: "multiline block", in: "keep\n<!--\nquoted\nthread\n-->\n", want: "keep"},
		{name: "non-greedy", in: "<!-- a -->middle<!-- b -->end", want: "middleend"},
		{name: "only comments", in: "  <!-- nothing -->\n\n", want: ""},
		{name: "unterminated block is kept", in: "text <!-- open", want: "text <!-- open"},
		{name: "surrounding whitespace", in: "\n\n  hello\n  ", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StripComments(tt.in)
			if got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := StripComments(got); again != got {
				t.Errorf("StripComments is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParseIssue(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantTitle string
		wantBody  string
		wantErr   error
	}{
		{
			name:      "title and body",
			in:        "Fix crash\nSteps to reproduce…",
			wantTitle: "Fix crash",
			wantBody:  "Steps to reproduce…",
		},
		{
			name:      "blank separator line",
			in:        "Fix crash\n\nline one\nline two\n",
			wantTitle: "Fix crash",
			wantBody:  "line one\nline two",
		},
		{
			name:      "title only",
			in:        "Just a title\n",
			wantTitle: "Just a title",
		},
		{
			name:      "template instructions stripped",
			in:        "Real title\nbody\n<!-- Write the title on the first line -->\n",
			wantTitle: "Real title",
			wantBody:  "body",
		},
		{
			name:    "untouched template",
			in:      "\n\n<!-- Write the title on the first line -->\n",
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty",
			in:      "",
			wantErr: ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body, err := ParseIssue(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseIssue() error = %v, want %v", err, tt.wantErr)
			}
			if title != tt.wantTitle || body != tt.wantBody {
				t.Errorf("ParseIssue() = (%q, %q), want (%q, %q)", title, body, tt.wantTitle, tt.wantBody)
			}
		})
	}
}

func TestParseEdit_KeepsCommentBlocks(t *testing.T) {
	title, body, err := ParseEdit("Title\n\nSteps\n<!-- template hint -->\nmore\n")
	if err != nil {
		t.Fatalf("ParseEdit() error = %v", err)
	}
	if title != "Title" || body != "Steps\n<!-- template hint -->\nmore" {
		t.Errorf("ParseEdit() = (%q, %q)", title, body)
	}

	if _, _, err := ParseEdit("\n\n"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseEdit(blank) error = %v, want %v", err, ErrInvalidInput)
	}
}

func TestParseComment(t *testing.T) {
	got, err := ParseComment("Thanks!\n<!--\n> quoted\n-->\n")
	if err != nil {
		t.Fatalf("ParseComment() error = %v", err)
	}
	if got != "Thanks!" {
		t.Errorf("ParseComment() = %q, want %q", got, "Thanks!")
	}

	if _, err := ParseComment("<!-- only the thread -->"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseComment(empty) error = %v, want ErrInvalidInput", err)
	}
}

func TestQuote(t *testing.T) {
	got := Quote("one\n\ntwo\n")
	want := "> one\n>\n> two"
	if got != want {
		t.Errorf("Quote() = %q, want %q", got, want)
	}
}
