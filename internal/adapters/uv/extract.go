package uv

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"io"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxBinarySize bounds the size of the extracted uv executable.
const maxBinarySize = 512 << 20

var errBinaryNotInArchive = errors.New("uv binary not found in archive")

// extractBinary copies the member named binName out of the archive at src into dst.
func extractBinary(src, archiveName, binName string, dst io.Writer) error {
	if strings.HasSuffix(archiveName, ".zip") {
		return extractZip(src, binName, dst)
	}
	return extractTarGz(src, binName, dst)
}

func extractTarGz(src, binName string, dst io.Writer) error {
	f, err := os.Open(src) //nolint:gosec // src is a temp file we created
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return errBinaryNotInArchive
		}
		if err != nil {
			return err
		}
		if hdr.Typeflag != tar.TypeReg || path.Base(hdr.Name) != binName {
			continue
		}
		_, err = io.Copy(dst, io.LimitReader(tr, maxBinarySize))
		return err
	}
}

func extractZip(src, binName string, dst io.Writer) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer func() { _ = zr.Close() }()

	for _, file := range zr.File {
		if file.FileInfo().IsDir() || path.Base(file.Name) != binName {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, io.LimitReader(rc, maxBinarySize))
		closeErr := rc.Close()
		return errors.Join(err, closeErr)
	}
	return errBinaryNotInArchive
}
