package frontend

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssets(t *testing.T) {
	for _, name := range []string{"index.html", "app.js", "style.css", "feed.html", "feed.js"} {
		_, err := fs.Stat(FS(), name)
		assert.NoError(t, err, name)
	}
	_, err := fs.Stat(FS(), "frontend.go")
	assert.Error(t, err)
}
