package readability_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepbrowser/deepbrowser-server/internal/readability"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Understanding Goroutines</title><style>body { color: red }</style></head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<header>Site header boilerplate</header>
<article>
<h1>Understanding Goroutines</h1>
<p>Goroutines are lightweight threads managed by the Go runtime, multiplexed onto OS threads.</p>
<h2>Scheduling</h2>
<p>The scheduler parks blocked goroutines and hands their threads to runnable ones.</p>
<p>tiny</p>
</article>
<script>console.log("tracking")</script>
<footer>Copyright notice</footer>
</body>
</html>`

func TestExtract_Article(t *testing.T) {
	article, err := readability.Extract(articlePage)
	require.NoError(t, err)

	assert.Equal(t, "Understanding Goroutines", article.Title)

	assert.Contains(t, article.Content, "# Understanding Goroutines")
	assert.Contains(t, article.Content, "## Scheduling")
	assert.Contains(t, article.Content, "lightweight threads")

	// Chrome and short fragments are dropped.
	assert.NotContains(t, article.Content, "tracking")
	assert.NotContains(t, article.Content, "Copyright")
	assert.NotContains(t, article.Content, "Site header")
	assert.NotContains(t, article.Content, "tiny")

	// Summary is the first prose block, not a heading.
	assert.Contains(t, article.Summary, "lightweight threads")
	assert.False(t, strings.HasPrefix(article.Summary, "#"))
}

func TestExtract_NoParagraphMarkup(t *testing.T) {
	page := `<html><head><title>Plain</title></head><body>
This is a long sentence without any paragraph markup that still deserves extraction. Another long sentence follows it with enough characters to pass the filter.
</body></html>`

	article, err := readability.Extract(page)
	require.NoError(t, err)
	assert.Equal(t, "Plain", article.Title)
	assert.Contains(t, article.Content, "without any paragraph markup")
}

func TestExtract_PrefersArticleOverBody(t *testing.T) {
	page := `<html><body>
<p>Sidebar text that is long enough to pass the paragraph length filter easily.</p>
<article><p>The actual article body text, also comfortably long enough to keep.</p></article>
</body></html>`

	article, err := readability.Extract(page)
	require.NoError(t, err)
	assert.Contains(t, article.Content, "actual article body")
	assert.NotContains(t, article.Content, "Sidebar")
}

func TestExtract_TitleTruncated(t *testing.T) {
	page := "<html><head><title>" + strings.Repeat("x", 500) + "</title></head><body><p>Some content that is long enough to be kept here.</p></body></html>"

	article, err := readability.Extract(page)
	require.NoError(t, err)
	assert.Len(t, article.Title, 200)
}

func TestText(t *testing.T) {
	page := `<html><head><style>.x{}</style></head><body>
<script>var x = 1;</script>
<p>Hello &amp; welcome to the   page.</p>
</body></html>`

	text := readability.Text(page)
	assert.Equal(t, "Hello & welcome to the page.", text)
}

func TestText_Capped(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("a", 10000) + "</p></body></html>"
	assert.Len(t, readability.Text(page), 8000)
}
