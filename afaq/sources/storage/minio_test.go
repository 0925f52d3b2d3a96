package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeKey(t *testing.T) {
	a := ScrapeKey("https://toursafaq.com/")
	assert.Equal(t, a, ScrapeKey("https://toursafaq.com/"))
	assert.NotEqual(t, a, ScrapeKey("https://toursafaq.com/tours"))
	assert.True(t, strings.HasPrefix(a, "scrapes/"))
	assert.True(t, strings.HasSuffix(a, ".json"))
}
