package spectral

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewGeometry(t *testing.T) {
	tests := []struct {
		name                string
		width, height, bins int
		wantErr             error
	}{
		{"basic", 4, 3, 8, nil},
		{"zero width", 0, 3, 8, nil},
		{"zero height", 4, 0, 8, nil},
		{"zero bins", 4, 3, 0, nil},
		{"negative width", -1, 3, 8, ErrNegativeExtent},
		{"negative height", 4, -1, 8, ErrNegativeExtent},
		{"negative bins", 4, 3, -1, ErrNegativeBins},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(tt.width, tt.height, tt.bins)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if img.Width() != tt.width || img.Height() != tt.height || img.Bins() != tt.bins {
				t.Fatalf("geometry %dx%dx%d, want %dx%dx%d",
					img.Width(), img.Height(), img.Bins(), tt.width, tt.height, tt.bins)
			}
			if len(img.Data()) != tt.width*tt.height*tt.bins {
				t.Fatalf("data length %d, want %d", len(img.Data()), tt.width*tt.height*tt.bins)
			}
		})
	}
}

func TestFromPixels(t *testing.T) {
	img, err := FromPixels([][][]float64{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7, 8}},
	})
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	if img.Width() != 2 || img.Height() != 2 || img.Bins() != 2 {
		t.Fatalf("geometry %dx%dx%d, want 2x2x2", img.Width(), img.Height(), img.Bins())
	}

	want := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if diff := cmp.Diff(want, img.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPixelsRaggedRows(t *testing.T) {
	_, err := FromPixels([][][]float64{
		{{1}, {2}},
		{{3}},
	})
	if !errors.Is(err, ErrRaggedRows) {
		t.Fatalf("FromPixels = %v, want ErrRaggedRows", err)
	}
}

func TestFromPixelsRaggedSpectra(t *testing.T) {
	_, err := FromPixels([][][]float64{
		{{1, 2}, {3, 4}},
		{{5, 6}, {7}},
	})
	if !errors.Is(err, ErrRaggedSpectra) {
		t.Fatalf("FromPixels = %v, want ErrRaggedSpectra", err)
	}
}

func TestFromPixelsEmpty(t *testing.T) {
	img, err := FromPixels(nil)
	if err != nil {
		t.Fatalf("FromPixels(nil): %v", err)
	}
	if img.Pixels() != 0 {
		t.Fatalf("Pixels = %d, want 0", img.Pixels())
	}
}

func TestFromData(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	img, err := FromData(3, 1, 2, data)
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}

	// FromData wraps without copying.
	data[0] = 42
	if img.Spectrum(0, 0)[0] != 42 {
		t.Fatal("FromData copied the slice instead of wrapping it")
	}

	if _, err := FromData(3, 1, 2, data[:5]); !errors.Is(err, ErrDataLength) {
		t.Fatalf("FromData short = %v, want ErrDataLength", err)
	}
}

func TestSpectrumIsView(t *testing.T) {
	img, err := New(2, 2, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	img.Spectrum(1, 1)[2] = 7
	if img.Data()[(1*2+1)*3+2] != 7 {
		t.Fatal("Spectrum mutation not visible through Data")
	}
}

func TestSpectrumOutOfRangePanics(t *testing.T) {
	img, err := New(2, 2, 3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Spectrum(2, 0) did not panic")
		}
	}()
	img.Spectrum(2, 0)
}

func TestSetSpectrum(t *testing.T) {
	img, err := New(2, 1, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := img.SetSpectrum(1, 0, []float64{8, 9}); err != nil {
		t.Fatalf("SetSpectrum: %v", err)
	}
	if img.Spectrum(1, 0)[1] != 9 {
		t.Fatalf("sample = %v, want 9", img.Spectrum(1, 0)[1])
	}

	if err := img.SetSpectrum(0, 0, []float64{1}); !errors.Is(err, ErrSpectrumLength) {
		t.Fatalf("SetSpectrum short = %v, want ErrSpectrumLength", err)
	}
}

func TestClone(t *testing.T) {
	img, err := FromPixels([][][]float64{{{1, 2}, {3, 4}}})
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}

	dup := img.Clone()
	dup.Spectrum(0, 0)[0] = 99
	if img.Spectrum(0, 0)[0] != 1 {
		t.Fatal("Clone shares storage with the original")
	}
}

func TestSameExtent(t *testing.T) {
	a, _ := New(2, 3, 4)
	b, _ := New(2, 3, 9)
	c, _ := New(3, 2, 4)
	if !a.SameExtent(b) {
		t.Fatal("images with equal extent reported as different")
	}
	if a.SameExtent(c) {
		t.Fatal("images with different extent reported as equal")
	}
}
