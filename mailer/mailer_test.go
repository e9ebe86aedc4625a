package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRenderBodyEscapesCallerData verifies recipient names and CTA fields
// cannot inject markup into the assembled email.
func TestRenderBodyEscapesCallerData(t *testing.T) {
	body := renderBody(`<b>Eve</b>`, "<p>hello</p>", `"><script>`, `http://x/?a="1"`)

	assert.NotContains(t, body, "<b>Eve</b>")
	assert.Contains(t, body, "&lt;b&gt;Eve&lt;/b&gt;")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "<p>hello</p>", "our own markup must pass through unescaped")
}

// TestRenderBodySkipsEmptyCTA verifies no link is emitted without both a
// label and a target.
func TestRenderBodySkipsEmptyCTA(t *testing.T) {
	body := renderBody("Ava", "<p>hi</p>", "", "http://x")

	assert.NotContains(t, body, "<a href")
}
