package pipeline

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/eanscan/internal/testutil"
)

func TestRenderOverlay(t *testing.T) {
	p, _ := newTestPipeline(t, nil)
	img := testutil.BarcodeImage(t, testutil.ReferenceCode, nil)
	res, err := p.ProcessImage(img)
	require.NoError(t, err)

	style := DefaultOverlayStyle()
	out := RenderOverlay(img, res, style)
	require.NotNil(t, out)
	assert.Equal(t, img.Bounds().Size(), out.Bounds().Size())

	// the scan line crosses the right quiet zone at the centroid row
	y := int(res.Geometry.Y + 0.5)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(out.Bounds().Dx()-1, y))

	// label strip in the top-left corner
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(0, 0))
	assert.Equal(t, "9 310232 954790 OK", overlayLabel(res))
}

func TestRenderOverlay_Edges(t *testing.T) {
	assert.Nil(t, RenderOverlay(nil, nil, DefaultOverlayStyle()))

	img := testutil.CreateTestImage(30, 20, color.Gray{Y: 100})
	out := RenderOverlay(img, nil, DefaultOverlayStyle())
	assert.Equal(t, uint8(100), out.RGBAAt(10, 10).R)

	failed := NewFailedResult(30, 20, errors.New("empty"))
	assert.Equal(t, "no code: empty", overlayLabel(failed))
	assert.NotNil(t, RenderOverlay(img, failed, DefaultOverlayStyle()))

	assert.Equal(t, "9 310232 954791 CHECKSUM", overlayLabel(&ScanResult{
		Digits: [13]int{9, 3, 1, 0, 2, 3, 2, 9, 5, 4, 7, 9, 1},
	}))
}
