package mock

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteFabricatesResponse(t *testing.T) {
	f := New()

	res, err := f.Execute(context.Background(), "qr-code-generator", nil, nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.Demo)
	assert.Equal(t, "Qr Code Generator completed successfully", res.Message)
	assert.Greater(t, res.ProcessingTime, int64(0))
	require.Len(t, res.Files, 1)
	assert.True(t, strings.HasSuffix(res.Files[0].Filename, ".png"))
	assert.Equal(t, "/api/download/"+res.Files[0].Filename, res.Files[0].DownloadURL)
}

func TestGuessExt(t *testing.T) {
	cases := map[string]string{
		"pdf-to-word":       ".pdf",
		"qr-code-generator": ".png",
		"barcode-generator": ".png",
		"audio-normalize":   ".mp3",
		"video-stabilize":   ".mp4",
		"gif-maker":         ".mp4",
		"hra-calculator":    ".zip",
	}
	for slug, want := range cases {
		assert.Equal(t, want, guessExt(slug), "slug %s", slug)
	}
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "Pdf To Word", titleFromSlug("pdf-to-word"))
	assert.Equal(t, "Hra Calculator", titleFromSlug("hra-calculator"))
}

func TestExecuteFromConcurrentRequests(t *testing.T) {
	f := New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.Execute(context.Background(), "qr-code-generator", nil, nil)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, res.ProcessingTime, int64(500))
			assert.Less(t, res.ProcessingTime, int64(3000))
		}()
	}
	wg.Wait()
}
