package fits

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/astrogo/fitsio"

	"github.com/robert-malhotra/go-acalib/internal/filter"
	"github.com/robert-malhotra/go-acalib/nddata"
)

// Load reads a FITS file into a Container. Gzip compressed files are
// decompressed transparently.
func Load(path string, opts ...Option) (*nddata.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Decode(f, opts...)
}

// Decode reads a FITS stream into a Container.
//
// HDUs are visited in file order. Image HDUs are converted and appended to
// Images; the primary HDU, when it holds image data, also becomes the
// container primary. Images of unsupported rank are logged and skipped, and
// so are tables that cannot be converted. When no primary image was found,
// the first image, or failing that the first table, becomes the primary. A
// stream yielding neither returns nddata.ErrEmpty.
func Decode(r io.Reader, opts ...Option) (*nddata.Container, error) {
	o := newOptions(opts)

	f, err := openStream(r, o)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := nddata.NewContainer()
	for i, hdu := range f.HDUs() {
		switch hdu.Type() {
		case fitsio.IMAGE_HDU:
			o.logger.Info("processing HDU", "index", i, "kind", "image")
			img, ok := hdu.(fitsio.Image)
			if !ok {
				return nil, fmt.Errorf("HDU %d: %w: unexpected image type %T", i, ErrInvalidHDU, hdu)
			}
			ds, err := imageToDataset(img, o)
			if errors.Is(err, ErrUnsupportedRank) {
				o.logger.Info("HDU is not an image, skipping", "index", i, "error", err)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("HDU %d: %w", i, err)
			}
			ref := c.AddImage(ds)
			if i == 0 {
				if err := c.SetPrimary(ref); err != nil {
					return nil, err
				}
			}

		case fitsio.BINARY_TBL, fitsio.ASCII_TBL:
			o.logger.Info("processing HDU", "index", i, "kind", "table")
			t, err := HDUToTable(hdu)
			switch {
			case errors.Is(err, ErrTableNotSupported):
				o.logger.Warn("table conversion not supported, skipping", "index", i, "error", err)
				continue
			case err != nil:
				// A table that fails to convert never fails the whole file.
				o.logger.Warn("table conversion failed, skipping", "index", i, "error", err)
				continue
			}
			c.AddTable(t)
		}
	}

	if err := c.SelectPrimary(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadPrimary converts only the primary HDU of a FITS file.
func LoadPrimary(path string, opts ...Option) (*nddata.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return DecodePrimary(f, opts...)
}

// DecodePrimary converts only the primary HDU of a FITS stream. Unlike
// Decode, a primary HDU of unsupported rank is an error.
func DecodePrimary(r io.Reader, opts ...Option) (*nddata.Dataset, error) {
	o := newOptions(opts)

	f, err := openStream(r, o)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdus := f.HDUs()
	if len(hdus) == 0 {
		return nil, fmt.Errorf("%w: no primary HDU", ErrInvalidHDU)
	}
	img, ok := hdus[0].(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("%w: primary HDU is %T", ErrInvalidHDU, hdus[0])
	}
	o.logger.Info("processing primary HDU")
	return imageToDataset(img, o)
}

// stream is an open FITS file over a possibly decompressed reader.
type stream struct {
	*fitsio.File
	rc io.ReadCloser
}

func (s *stream) Close() error {
	err := s.File.Close()
	if cerr := s.rc.Close(); err == nil {
		err = cerr
	}
	return err
}

func openStream(r io.Reader, o *options) (*stream, error) {
	flt, br, err := filter.Detect(r)
	if err != nil {
		return nil, err
	}
	rc, err := flt.NewReader(br)
	if err != nil {
		return nil, err
	}
	if flt.Name() != "none" {
		o.logger.Debug("decompressing stream", "filter", flt.Name())
	}

	f, err := fitsio.Open(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("reading FITS stream: %w", err)
	}
	return &stream{File: f, rc: rc}, nil
}

// Save writes c to path, replacing any existing file. A path ending in
// ".gz" is gzip compressed.
//
// The file is written to a temporary file in the same directory and renamed
// over path once complete, so a failed save leaves path untouched. A
// container whose primary is a Table returns ErrUnsupportedPrimary before
// anything is written.
func Save(path string, c *nddata.Container, opts ...Option) (err error) {
	if err := checkPrimary(c); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w, err := filter.ForPath(path).NewWriter(tmp)
	if err != nil {
		return err
	}
	if err := Encode(w, c, opts...); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Encode writes c as a FITS stream.
//
// The primary dataset becomes the primary HDU, or an empty primary HDU is
// written when there is none. Every image then follows as an extension named
// SCI and every table as an extension named TAB, each kind with EXTVER
// counting from 1. The primary image is also written among the SCI
// extensions unless WithSkipPrimaryImage is given.
func Encode(w io.Writer, c *nddata.Container, opts ...Option) error {
	if err := checkPrimary(c); err != nil {
		return err
	}
	o := newOptions(opts)

	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("creating FITS stream: %w", err)
	}

	if err := writePrimary(f, c); err != nil {
		f.Close()
		return err
	}

	ref := c.PrimaryRef()
	version := 0
	for i, ds := range c.Images {
		if o.skipPrimaryImage && ref.Kind == nddata.RefImage && ref.Index == i {
			o.logger.Debug("skipping primary image extension", "index", i)
			continue
		}
		version++
		img, err := datasetToImage(ds, false, &extension{name: "SCI", version: version})
		if err != nil {
			f.Close()
			return fmt.Errorf("image %d: %w", i, err)
		}
		if err := writeHDU(f, img); err != nil {
			f.Close()
			return fmt.Errorf("image %d: %w", i, err)
		}
	}

	for i, t := range c.Tables {
		tbl, err := tableToHDU(t, &extension{name: "TAB", version: i + 1})
		if err != nil {
			f.Close()
			return fmt.Errorf("table %d: %w", i, err)
		}
		if err := writeHDU(f, tbl); err != nil {
			f.Close()
			return fmt.Errorf("table %d: %w", i, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing FITS stream: %w", err)
	}
	return nil
}

func checkPrimary(c *nddata.Container) error {
	if c == nil {
		return errors.New("nil container")
	}
	if c.PrimaryRef().Kind == nddata.RefTable {
		return ErrUnsupportedPrimary
	}
	return nil
}

func writePrimary(f *fitsio.File, c *nddata.Container) error {
	var (
		phdu fitsio.Image
		err  error
	)
	if ds, ok := c.PrimaryDataset(); ok {
		phdu, err = DatasetToImage(ds, true)
	} else {
		phdu, err = fitsio.NewPrimaryHDU(nil)
	}
	if err != nil {
		return fmt.Errorf("primary HDU: %w", err)
	}
	if err := writeHDU(f, phdu); err != nil {
		return fmt.Errorf("primary HDU: %w", err)
	}
	return nil
}

func writeHDU(f *fitsio.File, hdu fitsio.HDU) error {
	defer hdu.Close()
	if err := f.Write(hdu); err != nil {
		return fmt.Errorf("writing HDU: %w", err)
	}
	return nil
}
