package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cesargomez89/bookwall/internal/constants"
	"github.com/cesargomez89/bookwall/internal/domain"
	"github.com/cesargomez89/bookwall/internal/httpclient"
)

type fakeEditions struct {
	ids []string
	err error
}

func (f *fakeEditions) Editions(ctx context.Context, oclcNumber string) ([]string, error) {
	return f.ids, f.err
}

// grayPNG encodes an opaque image with every color channel set to value.
func grayPNG(t *testing.T, value byte) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = value
		img.Pix[i+1] = value
		img.Pix[i+2] = value
		img.Pix[i+3] = 255
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// darkPNG encodes a raster whose bytes, alpha included, are all zero;
// its brightness mean is below the acceptance floor.
func darkPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// coverServer serves detail pages at /{id} with a cover img pointing at
// /img/{id}_140.jpg, and image bytes per path from images. It records
// every request path in order.
type coverServer struct {
	srv    *httptest.Server
	images map[string][]byte // path -> body; missing paths 404
	pages  map[string]bool   // ids with a detail page

	mu       sync.Mutex
	requests []string
}

func newCoverServer(t *testing.T) *coverServer {
	t.Helper()
	cs := &coverServer{
		images: make(map[string][]byte),
		pages:  make(map[string]bool),
	}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.requests = append(cs.requests, r.URL.Path)
		cs.mu.Unlock()

		if body, ok := cs.images[r.URL.Path]; ok {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(body)
			return
		}
		id := r.URL.Path[1:]
		if cs.pages[id] {
			fmt.Fprintf(w, `<html><body><div id="cover"><img src="/img/%s_140.jpg"></div></body></html>`, id)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *coverServer) requestLog() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]string(nil), cs.requests...)
}

func newTestResolver(cs *coverServer, editions EditionLister) *Resolver {
	return NewResolver(httpclient.NewClient(cs.srv.Client()), editions, cs.srv.URL, nil)
}

func testPub() *domain.Publication {
	pub := &domain.Publication{OCLCNumber: "100"}
	pub.SetTitle("the design of everyday things")
	pub.SetAuthors("Norman, Donald A.", nil)
	return pub
}

func TestResolver_AlternateShortCircuits(t *testing.T) {
	cs := newCoverServer(t)
	cs.pages["201"] = true
	cs.images["/img/201_400.jpg"] = grayPNG(t, 128)

	resolver := newTestResolver(cs, &fakeEditions{ids: []string{"201", "202"}})
	img := resolver.Resolve(context.Background(), testPub())

	if img.Bounds().Dx() != 10 {
		t.Fatalf("expected the downloaded 10px cover, got %v", img.Bounds())
	}

	// First alternate's high-res candidate succeeded: nothing else was
	// fetched, in particular not the second alternate or the original.
	want := []string{"/201", "/img/201_400.jpg"}
	got := cs.requestLog()
	if len(got) != len(want) {
		t.Fatalf("requests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("requests = %v, want %v", got, want)
		}
	}
}

func TestResolver_CandidateOrderHighToLow(t *testing.T) {
	cs := newCoverServer(t)
	cs.pages["100"] = true
	// High-res missing, default nearly white (invalid), low-res valid.
	cs.images["/img/100_140.jpg"] = grayPNG(t, 255)
	cs.images["/img/100_70.jpg"] = grayPNG(t, 128)

	resolver := newTestResolver(cs, &fakeEditions{})
	img := resolver.Resolve(context.Background(), testPub())

	if img.Bounds().Dx() != 10 {
		t.Fatalf("expected the low-res cover, got %v", img.Bounds())
	}

	want := []string{"/100", "/img/100_400.jpg", "/img/100_140.jpg", "/img/100_70.jpg"}
	got := cs.requestLog()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("requests = %v, want %v", got, want)
	}
}

func TestResolver_FallsBackToOriginalIdentifier(t *testing.T) {
	cs := newCoverServer(t)
	// Alternates have no detail pages; the original does.
	cs.pages["100"] = true
	cs.images["/img/100_400.jpg"] = grayPNG(t, 90)

	resolver := newTestResolver(cs, &fakeEditions{ids: []string{"201", "202"}})
	img := resolver.Resolve(context.Background(), testPub())

	if img.Bounds().Dx() != 10 {
		t.Fatalf("expected a downloaded cover, got %v", img.Bounds())
	}
}

func TestResolver_PlaceholderWhenEverythingFails(t *testing.T) {
	cs := newCoverServer(t)
	// No detail pages, no images anywhere.

	resolver := newTestResolver(cs, &fakeEditions{ids: []string{"201"}})
	img := resolver.Resolve(context.Background(), testPub())

	bounds := img.Bounds()
	if bounds.Dx() != constants.PlaceholderWidth || bounds.Dy() != constants.PlaceholderHeight {
		t.Fatalf("expected placeholder canvas, got %v", bounds)
	}
	if countInkPixels(img) == 0 {
		t.Error("placeholder should carry the title and author text")
	}
}

func TestResolver_EditionLookupFailureIsDegraded(t *testing.T) {
	cs := newCoverServer(t)
	cs.pages["100"] = true
	cs.images["/img/100_400.jpg"] = grayPNG(t, 128)

	resolver := newTestResolver(cs, &fakeEditions{err: errors.New("xref down")})
	img := resolver.Resolve(context.Background(), testPub())

	// The failed expansion must not prevent the original identifier's
	// own cover from being found.
	if img.Bounds().Dx() != 10 {
		t.Fatalf("expected the original identifier's cover, got %v", img.Bounds())
	}
}

func TestResolver_InvalidImagesEndAtPlaceholder(t *testing.T) {
	cs := newCoverServer(t)
	cs.pages["100"] = true
	cs.images["/img/100_400.jpg"] = grayPNG(t, 255)
	cs.images["/img/100_140.jpg"] = darkPNG(t)
	cs.images["/img/100_70.jpg"] = []byte("not an image")

	resolver := newTestResolver(cs, &fakeEditions{})
	img := resolver.Resolve(context.Background(), testPub())

	if img.Bounds().Dx() != constants.PlaceholderWidth {
		t.Fatalf("expected placeholder, got %v", img.Bounds())
	}
}
