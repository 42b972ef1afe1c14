package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	cerrors "github.com/instructa/coursegen/internal/errors"
)

// stageCopyAssets carries content assets (images and other non-Markdown files
// next to lessons), the optional static directory, and the embedded theme
// assets into the output.
func stageCopyAssets(ctx context.Context, bs *buildState) error {
	g := bs.gen
	out := g.cfg.Output.Directory

	for _, a := range bs.tree.Assets {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageCopyAssets, ctx.Err())
		default:
		}
		dst := filepath.Join(out, filepath.FromSlash(a.RelativePath))
		if err := copyFile(a.Path, dst); err != nil {
			return newFatalStageError(StageCopyAssets, cerrors.OutputError("copy asset", err))
		}
		bs.report.AssetsCopied++
	}

	if static := g.cfg.Content.Static; static != "" {
		n, err := copyDir(static, out)
		if err != nil {
			return newWarnStageError(StageCopyAssets, cerrors.OutputError("copy static", err))
		}
		bs.report.AssetsCopied += n
	}

	if err := g.writeThemeAssets(out); err != nil {
		return newFatalStageError(StageCopyAssets, err)
	}
	return nil
}

// writeThemeAssets extracts the embedded stylesheet and script.
func (g *Generator) writeThemeAssets(out string) error {
	entries, err := fs.ReadDir(layoutFS, "templates/assets")
	if err != nil {
		return cerrors.OutputError("read theme assets", err)
	}
	dir := filepath.Join(out, themeAssetsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cerrors.OutputError("mkdir theme assets", err)
	}
	for _, e := range entries {
		data, err := fs.ReadFile(layoutFS, "templates/assets/"+e.Name())
		if err != nil {
			return cerrors.OutputError("read theme asset", err)
		}
		if err := os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644); err != nil {
			return cerrors.OutputError("write theme asset", err)
		}
	}
	return nil
}

// copyDir copies src recursively into dst, returning the file count.
func copyDir(src, dst string) (int, error) {
	n := 0
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		if err := copyFile(p, filepath.Join(dst, rel)); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
