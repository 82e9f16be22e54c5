// Package archive copies save files to and from their backups and packs the
// campaign directory back into the game's save archive.
package archive

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
)

// BackupExt is the extension of backup copies. Packing skips these files.
const BackupExt = ".bak"

// BackupPath swaps the extension of p for .bak: campaign.scn becomes
// campaign.bak and status becomes status.bak.
func BackupPath(p string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + BackupExt
}

// Backup copies every path to its backup, overwriting older backups
func Backup(paths ...string) error {
	for _, p := range paths {
		if err := copyFile(p, BackupPath(p)); err != nil {
			return errors.Wrapf(err, "failed to back up %s", filepath.Base(p))
		}
	}
	return nil
}

// Restore copies every backup over its original
func Restore(paths ...string) error {
	for _, p := range paths {
		src := BackupPath(p)
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				return errors.NotFoundf("no backup for %s", filepath.Base(p)).
					WithMeta(errors.MetaPath, src)
			}
			return errors.WrapWithCode(err, errors.CodeInternal, "failed to stat backup")
		}
		if err := copyFile(src, p); err != nil {
			return errors.Wrapf(err, "failed to restore %s", filepath.Base(p))
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to open source").
			WithMeta(errors.MetaPath, src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to open destination").
			WithMeta(errors.MetaPath, dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to copy").
			WithMeta(errors.MetaPath, dst)
	}
	if err := out.Close(); err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to close destination").
			WithMeta(errors.MetaPath, dst)
	}
	return nil
}

// Pack zips the regular files directly inside dir into dest with flat names.
// Backups are left out. Entries are written in name order.
func Pack(dir, dest string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to read campaign dir").
			WithMeta(errors.MetaPath, dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || filepath.Ext(e.Name()) == BackupExt {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeInternal, "failed to create archive dir")
	}
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeInternal, "failed to create archive").
			WithMeta(errors.MetaPath, dest)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range names {
		if err := addFile(zw, filepath.Join(dir, name), name); err != nil {
			_ = zw.Close()
			return 0, err
		}
	}
	if err := zw.Close(); err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeInternal, "failed to finish archive")
	}

	slog.Info("Packed campaign", "dir", dir, "archive", dest, "files", len(names))
	return len(names), nil
}

func addFile(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to stat file").
			WithMeta(errors.MetaPath, path)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to build zip header")
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to add zip entry")
	}
	in, err := os.Open(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to open file").
			WithMeta(errors.MetaPath, path)
	}
	defer in.Close()
	if _, err := io.Copy(w, in); err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to compress file").
			WithMeta(errors.MetaPath, path)
	}
	return nil
}

// Unpack extracts the save archive into dir. Entry paths are flattened to
// their base name so nothing lands outside dir.
func Unpack(src, dir string) (int, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to open archive").
			WithMeta(errors.MetaPath, src)
	}
	defer zr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeInternal, "failed to create campaign dir")
	}
	n := 0
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(zf, filepath.Join(dir, filepath.Base(zf.Name))); err != nil {
			return n, err
		}
		n++
	}

	slog.Info("Unpacked save", "archive", src, "dir", dir, "files", n)
	return n, nil
}

func extractFile(zf *zip.File, dst string) error {
	rc, err := zf.Open()
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeDataLoss, "failed to open zip entry").
			WithMeta(errors.MetaPath, zf.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to create file").
			WithMeta(errors.MetaPath, dst)
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return errors.WrapWithCode(err, errors.CodeDataLoss, "failed to extract zip entry").
			WithMeta(errors.MetaPath, zf.Name)
	}
	return out.Close()
}
