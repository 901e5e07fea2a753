package gen

import (
	"os"
	"path/filepath"
)

var (
	// FeatureSQL writes the Postgres DDL creating the tables of every module.
	FeatureSQL = Feature{
		Name:        "sql/schema",
		Stage:       Beta,
		Default:     false,
		Description: "Writes a schema.sql file per module with the tables, primary keys and indexes of its objects",
		cleanup: func(dir string) error {
			return remove(dir, schemaFile)
		},
	}

	// FeatureSnapshot stores a msgpack snapshot of each finalized module
	// beside its generated package.
	FeatureSnapshot = Feature{
		Name:        "schema/snapshot",
		Stage:       Experimental,
		Default:     false,
		Description: "Schema snapshot stores the finalized design of each module for later comparison",
		cleanup: func(dir string) error {
			return remove(dir, snapshotFile)
		},
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureSQL,
		FeatureSnapshot,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development, and actively being tested.
	Experimental

	// Alpha features are complete but their output may still change.
	Alpha

	// Beta features are documented, and no breaking-changes are expected for them.
	Beta

	// Stable features are Beta features that were running for a while.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the lowcode codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup removes the output of the feature from a module directory
	// when the feature is disabled, e.g. files from previous codegen runs.
	cleanup func(dir string) error
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

func featureNames() []string {
	names := make([]string, len(AllFeatures))
	for i, f := range AllFeatures {
		names[i] = f.Name
	}
	return names
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
