package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func selection(t *testing.T, fragment, selector string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc.Find(selector)
}

func TestTidyText(t *testing.T) {
	sel := selection(t, `<p>  hello <b>nested   world</b>  </p>`, "p")
	require.Equal(t, "hello nested world", TidyText(sel))
}

func TestTidyTextEmptySelection(t *testing.T) {
	sel := selection(t, `<p>hello</p>`, "div")
	require.Equal(t, "", TidyText(sel))
}
