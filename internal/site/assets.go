package site

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// copyAssets copies referenced images and author pictures from the site root.
// A missing source is logged and skipped.
func (g *Generator) copyAssets() error {
	rels := append([]string(nil), g.corpus.Assets...)
	for _, a := range g.corpus.Authors {
		if a.Picture != "" {
			rels = append(rels, path.Join(config.ImagesDir, a.Picture))
		}
	}

	for _, rel := range rels {
		src := filepath.Join(g.root, filepath.FromSlash(rel))
		dst := filepath.Join(g.outDir, filepath.FromSlash(rel))
		err := copyFile(src, dst)
		switch {
		case err == nil:
			g.recorder.IncArtifact("asset")
		case stderrors.Is(err, fs.ErrNotExist):
			g.logger.Warn("Asset not found", logfields.Path(src))
		default:
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy asset").
				Fatal().
				WithContext("path", src).
				Build()
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304 -- src is a site-relative path cleaned at extraction.
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	// #nosec G304 -- dst stays under the output directory.
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
