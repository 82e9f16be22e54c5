package knowledge

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/conquest-editor/internal/errors"
	"github.com/KirkDiggler/conquest-editor/internal/pkg/logsink"
	"github.com/KirkDiggler/conquest-editor/internal/rules"
	"github.com/KirkDiggler/conquest-editor/internal/section"
)

// Asset locations below the data dir
const (
	ItemsDir      = "set/stuff"
	BreedsDir     = "set/breed"
	VehiclesDir   = "entity/-vehicle"
	PropertiesDir = "properties"
	ConquestDir   = "set/multiplayer/units/conquest"
	StatusFile    = "campaign/status"
)

// RequiredDirs must all exist before a build starts
var RequiredDirs = []string{ItemsDir, BreedsDir, VehiclesDir, PropertiesDir, ConquestDir}

// item and breed scans skip these
var excludedExtensions = map[string]bool{
	".presets": true,
	".fsm":     true,
	".inc":     true,
	".txt":     true,
}

// sourceFile is one asset file with CRLF line ends normalized
type sourceFile struct {
	// slash separated, relative to the data dir
	path string
	text string
}

func (f sourceFile) name() string {
	return path.Base(f.path)
}

// BuildInput configures a knowledge base build
type BuildInput struct {
	DataDir string
	Rules   *rules.Rules
	Sink    logsink.Sink
}

// Validate checks the input
func (i *BuildInput) Validate() error {
	if i == nil {
		return errors.InvalidArgument("input is required")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("DataDir", i.DataDir, vb)
	if i.Rules == nil {
		vb.RequiredField("Rules")
	}
	return vb.Build()
}

// BuildOutput carries the built base and scan statistics
type BuildOutput struct {
	Base     *Base
	Files    int
	Duration time.Duration
}

// CheckRequiredPaths fails with CodeFailedPrecondition when an asset
// directory or the status file is missing
func CheckRequiredPaths(dataDir string) error {
	for _, rel := range RequiredDirs {
		p := filepath.Join(dataDir, filepath.FromSlash(rel))
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			return errors.FailedPreconditionf("game data directory %s does not exist", rel).
				WithMeta(errors.MetaPath, p)
		}
	}
	p := filepath.Join(dataDir, filepath.FromSlash(StatusFile))
	if info, err := os.Stat(p); err != nil || info.IsDir() {
		return errors.FailedPreconditionf("campaign status file %s does not exist", StatusFile).
			WithMeta(errors.MetaPath, p)
	}
	return nil
}

// Build scans the asset families in parallel and then resolves the tables
// in dependency order: items, breeds, vehicle properties, extenders, vehicle
// loadouts, infantry costs, squad costs and the campaign status.
func Build(ctx context.Context, input *BuildInput) (*BuildOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid input")
	}
	sink := input.Sink
	if sink == nil {
		sink = logsink.Discard{}
	}
	if err := CheckRequiredPaths(input.DataDir); err != nil {
		return nil, err
	}

	start := time.Now()
	var (
		items, breeds, vehicles, properties, conquest []sourceFile
		statusText                                    string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = readFamily(gctx, input.DataDir, ItemsDir, skipExcludedExtension, sink)
		return err
	})
	g.Go(func() (err error) {
		breeds, err = readFamily(gctx, input.DataDir, BreedsDir, skipExcludedExtension, sink)
		return err
	})
	g.Go(func() (err error) {
		vehicles, err = readFamily(gctx, input.DataDir, VehiclesDir, nil, sink)
		return err
	})
	g.Go(func() (err error) {
		properties, err = readFamily(gctx, input.DataDir, PropertiesDir, nil, sink)
		return err
	})
	g.Go(func() (err error) {
		conquest, err = readFamily(gctx, input.DataDir, ConquestDir, nil, sink)
		return err
	})
	g.Go(func() error {
		raw, err := os.ReadFile(filepath.Join(input.DataDir, filepath.FromSlash(StatusFile)))
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to read campaign status")
		}
		statusText, _ = section.NormalizeNewlines(string(raw))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := input.Rules
	t := &Tables{}

	itemTables := scanItems(items, r, sink)
	t.PatternSizes = itemTables.patternSizes
	t.ItemSizes = itemTables.sizes
	t.BlockSizes = itemTables.blocks
	t.ItemWeights = itemTables.weights
	t.Weapons = itemTables.weapons
	if len(t.Weapons) == 0 {
		logsink.Logf(sink, "No weapons found in the game data.")
	}

	t.BreedLoadouts = scanBreeds(breeds, sink)

	t.VehicleProperties, t.VehicleFuel = scanVehicleProperties(vehicles, sink)
	propTables := scanProperties(properties, sink)
	t.PropertySizes = propTables.sizes
	t.VehicleLoadouts = scanVehicleLoadouts(vehicles, t.VehicleProperties, propTables.entries, sink)

	t.InfantryCosts = scanInfantryCosts(conquest, r, sink)
	t.Compositions, t.VehicleCosts = scanCompositions(conquest, t.InfantryCosts, r, sink)

	t.Status = ParseCampaignStatus(statusText, sink)

	base, err := NewBase(t, sink)
	if err != nil {
		return nil, err
	}

	out := &BuildOutput{
		Base:     base,
		Files:    len(items) + len(breeds) + len(vehicles) + len(properties) + len(conquest) + 1,
		Duration: time.Since(start),
	}
	slog.Info("knowledge base built",
		"data_dir", input.DataDir,
		"files", out.Files,
		"items", len(t.ItemSizes),
		"breeds", len(t.BreedLoadouts),
		"vehicles", len(t.VehicleLoadouts),
		"compositions", len(t.Compositions),
		"duration", out.Duration)
	return out, nil
}

func skipExcludedExtension(p string) bool {
	return excludedExtensions[path.Ext(p)]
}

// readFamily loads every file below dataDir/rel. Unreadable files are logged
// and skipped.
func readFamily(ctx context.Context, dataDir, rel string, skip func(string) bool, sink logsink.Sink) ([]sourceFile, error) {
	root := filepath.Join(dataDir, filepath.FromSlash(rel))
	var files []sourceFile
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if p == root {
				return walkErr
			}
			logsink.Logf(sink, "Skipping %s: %v", p, walkErr)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		relPath, err := filepath.Rel(dataDir, p)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		if skip != nil && skip(relPath) {
			return nil
		}
		raw, err := os.ReadFile(p)
		if err != nil {
			logsink.Logf(sink, "Skipping %s: %v", relPath, err)
			return nil
		}
		text, _ := section.NormalizeNewlines(string(raw))
		files = append(files, sourceFile{path: relPath, text: text})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scan %s", rel)
	}
	return files, nil
}
