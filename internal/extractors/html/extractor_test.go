package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraphs", "<p>One</p><p>Two</p>", "One\n\nTwo"},
		{"head dropped", "<html><head><title>T</title></head><body>Body</body></html>", "Body"},
		{"script and style", "<script>var x = 1;</script><style>p{}</style>Text", "Text"},
		{"comment", "a<!-- hidden -->b", "ab"},
		{"entities", "Fish &amp; chips &lt;3", "Fish & chips <3"},
		{"list items", "<ul><li>one</li><li>two</li></ul>", "one\ntwo"},
		{"breaks", "line<br>next<br/>last", "line\nnext\nlast"},
		{"spaces collapsed", "<p>  lots   of \t space </p>", "lots of space"},
		{"inline tags", "<p>Be <strong>bold</strong> today</p>", "Be bold today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.in))
		})
	}
}

func TestExtract(t *testing.T) {
	page := "<html><body><h1>Unit 3</h1><p>Plan the week.</p></body></html>"

	out, err := New().Extract(context.Background(), "unit.html", []byte(page))

	require.NoError(t, err)
	assert.Equal(t, domain.KindText, out.Kind)
	assert.Equal(t, "Unit 3\n\nPlan the week.", out.Text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract(context.Background(), "bad.htm", []byte{0xfe, 0xff})

	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{"html", "htm"}, New().Extensions())
}
