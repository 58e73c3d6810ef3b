package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractZip expands a ZIP bundle and parses every .docx and .pdf member.
// Other members are skipped with a warning; a member that fails to parse
// does not fail the bundle.
func (e *Extractor) ExtractZip(ctx context.Context, path string) ([]Extraction, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	var results []Extraction
	for _, member := range r.File {
		if member.FileInfo().IsDir() {
			continue
		}
		recs, err := e.extractZipMember(ctx, member)
		if err != nil {
			e.logger.Warn("skipping zip member", "zip", path, "member", member.Name, "error", err)
			continue
		}
		results = append(results, recs...)
	}
	return results, nil
}

func (e *Extractor) extractZipMember(ctx context.Context, member *zip.File) ([]Extraction, error) {
	ext := strings.ToLower(filepath.Ext(member.Name))
	if ext != ".docx" && ext != ".pdf" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, member.Name)
	}

	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	if ext == ".docx" {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		rec, err := e.extractDOCXReader(zr, member.Name)
		if err != nil {
			return nil, err
		}
		return []Extraction{rec}, nil
	}

	// pdftotext reads from a file path, so spill the member to a temp file.
	tmp, err := os.CreateTemp("", "timecard-*.pdf")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	recs, err := e.ExtractPDF(ctx, tmp.Name())
	if err != nil {
		return nil, err
	}
	// Report the member name, not the temp path.
	for i := range recs {
		recs[i].SourceFile = member.Name
	}
	return recs, nil
}
