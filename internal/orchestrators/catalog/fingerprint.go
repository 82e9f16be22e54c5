package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/knowledge"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
)

// Fingerprint hashes the rule set and the path, size and modification time
// of every file a knowledge base build reads. Any edit to the asset tree or
// the rules changes it.
func Fingerprint(dataDir string, r *rules.Rules) (string, error) {
	var files []string
	for _, rel := range knowledge.RequiredDirs {
		root := filepath.Join(dataDir, filepath.FromSlash(rel))
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return "", errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to walk asset dir").
				WithMeta(errors.MetaPath, root)
		}
	}
	files = append(files, filepath.Join(dataDir, filepath.FromSlash(knowledge.StatusFile)))
	sort.Strings(files)

	h := xxhash.New()
	for _, p := range files {
		info, err := os.Stat(p)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to stat asset").
				WithMeta(errors.MetaPath, p)
		}
		rel, err := filepath.Rel(dataDir, p)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.CodeInternal, "failed to relativize asset path")
		}
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", filepath.ToSlash(rel), info.Size(), info.ModTime().UnixNano())
	}

	if r != nil {
		raw, err := json.Marshal(r)
		if err != nil {
			return "", errors.WrapWithCode(err, errors.CodeInternal, "failed to encode rules")
		}
		_, _ = h.Write(raw)
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}
