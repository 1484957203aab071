package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello world", "Hello world"},
		{"collapse whitespace", "  Hello \n\t  world  ", "Hello world"},
		{"strip markup", "<p>Go <b>1.23</b> released</p>", "Go 1.23 released"},
		{"block tags separate words", "<p>first</p><p>second</p>", "first second"},
		{"entities decoded then filtered", "Tom &amp; Jerry", "Tom Jerry"},
		{"script dropped", "<script>alert(1)</script>News", "News"},
		{"keeps punctuation", `It's "great", isn't it? Yes! - ok.`, `It's "great", isn't it? Yes! - ok.`},
		{"drops symbols", "Price: $100 (50% off) #deal @user", "Price 100 50 off deal user"},
		{"unicode letters kept", "Café naïve résumé", "Café naïve résumé"},
		{"nbsp entity separates words", "Apple&nbsp;announces new&nbsp;chips", "Apple announces new chips"},
		{"raw nbsp separates words", "Apple\u00a0announces new\u00a0chips", "Apple announces new chips"},
		{"thin space separates words", "Apple\u2009announces\u2009chips", "Apple announces chips"},
		{"nbsp next to dropped symbol", "Price:\u00a0$100", "Price 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"<div>Breaking: markets <i>rally</i> &mdash; again!</div>",
		"r/golang: why    is this so   fast???",
		"repo-name: A tool for   things & stuff",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestIsNoise(t *testing.T) {
	assert.True(t, IsNoise("", MinTextLength))
	assert.True(t, IsNoise("too short", MinTextLength))
	assert.False(t, IsNoise("this sentence is long enough", MinTextLength))
	assert.True(t, IsNoise("abcd", 0), "non-positive threshold falls back to default")
	assert.False(t, IsNoise("abcd", 4))
}

func TestJoinAndTruncate(t *testing.T) {
	assert.Equal(t, "title body", Join("title", "body"))
	assert.Equal(t, "title", Join("title", ""))
	assert.Equal(t, "body", Join("", "body"))

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
}
