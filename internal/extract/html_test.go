package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleText_SkipsInvisibleElements(t *testing.T) {
	page := `<html><head><style>p{}</style></head><body>` +
		`<nav>Home | About</nav>` +
		`<p>First paragraph here.</p>` +
		`<script>var tracking = true;</script>` +
		`<p>Second   paragraph
		here.</p>` +
		`<footer>Copyright</footer>` +
		`</body></html>`

	got, err := VisibleText(page)
	require.NoError(t, err)

	assert.Equal(t, "First paragraph here.\nSecond paragraph here.", got)
}

func TestVisibleText_PrefersMainContent(t *testing.T) {
	page := `<html><body>` +
		`<div>Related stories you might like</div>` +
		`<main><p>Officials confirmed the report.</p></main>` +
		`</body></html>`

	got, err := VisibleText(page)
	require.NoError(t, err)

	assert.Equal(t, "Officials confirmed the report.", got)
}

func TestVisibleText_MediaWikiContent(t *testing.T) {
	page := `<html><body>` +
		`<div id="sidebar">Tools</div>` +
		`<div id="mw-content-text"><p>Laksa is a spicy noodle soup.</p></div>` +
		`</body></html>`

	got, err := VisibleText(page)
	require.NoError(t, err)

	assert.Equal(t, "Laksa is a spicy noodle soup.", got)
}

func TestVisibleText_EmptyMainFallsBackToDocument(t *testing.T) {
	page := `<html><body><main><script>x()</script></main><p>Body text.</p></body></html>`

	got, err := VisibleText(page)
	require.NoError(t, err)

	assert.Equal(t, "Body text.", got)
}

func TestVisibleText_PlainText(t *testing.T) {
	got, err := VisibleText("just text")
	require.NoError(t, err)

	assert.Equal(t, "just text", got)
}
