package support

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/eanscan/internal/synth"
	"github.com/MeKo-Tech/eanscan/internal/utils"
)

// aBarcodeImageEncoding renders code into name inside the scenario directory.
func (testCtx *TestContext) aBarcodeImageEncoding(name, code string) error {
	return testCtx.renderBarcode(name, code, synth.DefaultOptions())
}

// aRotatedBarcodeImageEncoding renders code rotated by deg degrees.
func (testCtx *TestContext) aRotatedBarcodeImageEncoding(name, code string, deg float64) error {
	opts := synth.DefaultOptions()
	opts.Rotation = deg
	return testCtx.renderBarcode(name, code, opts)
}

func (testCtx *TestContext) renderBarcode(name, code string, opts synth.Options) error {
	img, err := synth.Render(code, opts)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", code, err)
	}
	return utils.SaveImage(img, testCtx.TempPath(name))
}

// aBlankImage writes a white image without any barcode.
func (testCtx *TestContext) aBlankImage(name string) error {
	var img image.Image = imaging.New(160, 80, color.White)
	return utils.SaveImage(img, testCtx.TempPath(name))
}

// aFileWithContent writes a text file, used for config files and broken images.
func (testCtx *TestContext) aFileWithContent(name string, content *godog.DocString) error {
	path := testCtx.TempPath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content.Content), 0o600)
}

// theFileShouldExist verifies a file was written inside the scenario directory.
func (testCtx *TestContext) theFileShouldExist(name string) error {
	if _, err := os.Stat(testCtx.TempPath(name)); err != nil {
		return fmt.Errorf("expected file %s: %w", name, err)
	}
	return nil
}

// theFileShouldContain verifies a file's content.
func (testCtx *TestContext) theFileShouldContain(name, text string) error {
	data, err := os.ReadFile(testCtx.TempPath(name))
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), text) {
		return fmt.Errorf("file %s does not contain %q:\n%s", name, text, data)
	}
	return nil
}

// theDirectoryShouldContainImages counts the images written below a directory.
func (testCtx *TestContext) theDirectoryShouldContainImages(name string, want int) error {
	got := 0
	err := filepath.WalkDir(testCtx.TempPath(name), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && utils.IsSupportedImage(path) {
			got++
		}
		return nil
	})
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %d images in %s, found %d", want, name, got)
	}
	return nil
}

// RegisterScanSteps registers fixture and file steps.
func (testCtx *TestContext) RegisterScanSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a barcode image "([^"]*)" encoding "([^"]*)"$`, testCtx.aBarcodeImageEncoding)
	sc.Step(`^a barcode image "([^"]*)" encoding "([^"]*)" rotated by ([\d.-]+) degrees$`,
		testCtx.aRotatedBarcodeImageEncoding)
	sc.Step(`^a blank image "([^"]*)"$`, testCtx.aBlankImage)
	sc.Step(`^a file "([^"]*)" with content:$`, testCtx.aFileWithContent)
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
	sc.Step(`^the directory "([^"]*)" should contain (\d+) images$`, testCtx.theDirectoryShouldContainImages)
}
